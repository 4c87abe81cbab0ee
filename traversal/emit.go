package traversal

import (
	"context"

	"github.com/bssrdf/boxtree/pkg/parallel"
	"github.com/bssrdf/boxtree/tree"
)

// emitFunc receives one list entry for the key currently being generated.
type emitFunc func(tree.BoxID)

// kernelFunc generates the list entries of a single key. Kernels must be
// deterministic pure functions of the key: buildCSR runs each kernel twice,
// once to count and once to fill, and the two runs must emit the same
// sequence.
type kernelFunc func(key int, w *walker, emit emitFunc) error

// buildCSR materializes a compressed sparse list over nkeys keys using
// two-pass emission: a parallel counting pass, a serial prefix sum and a
// parallel fill pass into the precomputed offsets. Keys are processed in
// contiguous chunks; within a key, emission order is the kernel's. No
// atomics or locks are involved, which keeps intra-key order deterministic.
func (s *buildState) buildCSR(ctx context.Context, nkeys int, kernel kernelFunc) (CSR, error) {
	counts := make([]int64, nkeys)

	err := parallel.ForEachChunk(ctx, s.cfg, nkeys, func(ctx context.Context, lo, hi int) error {
		w := newWalker(s.maxLevels)
		for key := lo; key < hi; key++ {
			var n int64
			if err := kernel(key, w, func(tree.BoxID) { n++ }); err != nil {
				return err
			}
			counts[key] = n
		}
		return nil
	})
	if err != nil {
		return CSR{}, err
	}

	starts := make([]int64, nkeys+1)
	var total int64
	for i, c := range counts {
		starts[i] = total
		total += c
	}
	starts[nkeys] = total

	lists := make([]tree.BoxID, total)

	err = parallel.ForEachChunk(ctx, s.cfg, nkeys, func(ctx context.Context, lo, hi int) error {
		w := newWalker(s.maxLevels)
		for key := lo; key < hi; key++ {
			offset := starts[key]
			if err := kernel(key, w, func(b tree.BoxID) {
				lists[offset] = b
				offset++
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CSR{}, err
	}

	return CSR{Starts: starts, Lists: lists}, nil
}
