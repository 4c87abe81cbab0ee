// Package parallel provides chunked data-parallel execution over index ranges.
//
// The traversal pipeline maps independent kernels over box or target-box
// indices. Work is split into contiguous chunks, one goroutine per chunk, so
// per-key output ordering is preserved without any cross-goroutine
// coordination beyond the final join.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// ============================================================================
// Configuration
// ============================================================================

// Config configures chunked parallel execution.
type Config struct {
	// Workers is the maximum number of concurrent goroutines.
	// Default: runtime.NumCPU()
	Workers int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// WithWorkers returns a new config with the specified number of workers.
func (c Config) WithWorkers(n int) Config {
	c.Workers = n
	return c
}

// workerCount resolves the effective worker count for n items.
func (c Config) workerCount(n int) int {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// ============================================================================
// Chunked For-Each
// ============================================================================

// ForEachChunk splits [0, n) into contiguous chunks and runs fn on each chunk
// concurrently. It returns the first error encountered; remaining chunks
// still run to completion (kernels observe ctx and return early on
// cancellation). If ctx is cancelled before a chunk starts, that chunk is
// skipped and ctx.Err() is reported.
func ForEachChunk(ctx context.Context, cfg Config, n int, fn func(ctx context.Context, lo, hi int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	workers := cfg.workerCount(n)
	chunkSize := (n + workers - 1) / workers

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			if err := fn(ctx, lo, hi); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(lo, hi)
	}

	wg.Wait()
	return firstErr
}

// ============================================================================
// Chunked Map
// ============================================================================

// MapChunks splits [0, n) into contiguous chunks, runs fn on each chunk
// concurrently, and returns the per-chunk results in chunk order. A chunk
// covering an empty range produces no entry.
func MapChunks[R any](ctx context.Context, cfg Config, n int, fn func(ctx context.Context, lo, hi int) (R, error)) ([]R, error) {
	if n <= 0 {
		return nil, ctx.Err()
	}

	workers := cfg.workerCount(n)
	chunkSize := (n + workers - 1) / workers

	nchunks := (n + chunkSize - 1) / chunkSize
	results := make([]R, nchunks)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < nchunks; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}

		wg.Add(1)
		go func(idx, lo, hi int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			r, err := fn(ctx, lo, hi)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			results[idx] = r
		}(w, lo, hi)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
