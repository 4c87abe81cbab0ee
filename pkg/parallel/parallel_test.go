package parallel

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachChunk_CoversRange(t *testing.T) {
	const n = 1000
	covered := make([]int32, n)

	err := ForEachChunk(context.Background(), DefaultConfig(), n, func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&covered[i], 1)
		}
		return nil
	})
	require.NoError(t, err)

	for i, c := range covered {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForEachChunk_Empty(t *testing.T) {
	called := false
	err := ForEachChunk(context.Background(), DefaultConfig(), 0, func(ctx context.Context, lo, hi int) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestForEachChunk_Error(t *testing.T) {
	wantErr := fmt.Errorf("kernel failed")
	err := ForEachChunk(context.Background(), Config{Workers: 4}, 100, func(ctx context.Context, lo, hi int) error {
		if lo == 0 {
			return wantErr
		}
		return nil
	})
	assert.Equal(t, wantErr, err)
}

func TestForEachChunk_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ForEachChunk(ctx, DefaultConfig(), 100, func(ctx context.Context, lo, hi int) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapChunks_Order(t *testing.T) {
	const n = 97
	cfg := Config{Workers: 8}

	results, err := MapChunks(context.Background(), cfg, n, func(ctx context.Context, lo, hi int) ([]int, error) {
		out := make([]int, 0, hi-lo)
		for i := lo; i < hi; i++ {
			out = append(out, i)
		}
		return out, nil
	})
	require.NoError(t, err)

	flat := make([]int, 0, n)
	for _, r := range results {
		flat = append(flat, r...)
	}
	require.Len(t, flat, n)
	for i, v := range flat {
		assert.Equal(t, i, v)
	}
}

func TestMapChunks_Error(t *testing.T) {
	wantErr := fmt.Errorf("boom")
	_, err := MapChunks(context.Background(), Config{Workers: 2}, 10, func(ctx context.Context, lo, hi int) (int, error) {
		return 0, wantErr
	})
	assert.Equal(t, wantErr, err)
}

func TestConfig_WorkerCount(t *testing.T) {
	assert.Equal(t, 3, Config{Workers: 8}.workerCount(3))
	assert.Equal(t, 4, Config{Workers: 4}.workerCount(100))
	assert.Equal(t, 1, Config{Workers: -1}.workerCount(1))
}
