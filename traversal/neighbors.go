package traversal

import (
	"github.com/bssrdf/boxtree/tree"
)

// neighborSourcesKernel emits "list 1" of one target box: every leaf-level
// source box, at any level, adjacent to or overlapping it. The key is a
// target box number, an index into targetBoxes, not a box id.
//
// The walk descends wherever a subtree holds sources and is still adjacent;
// a box may appear in its own list (self-interaction is evaluated
// directly).
func (s *buildState) neighborSourcesKernel(key int, w *walker, emit emitFunc) error {
	boxID := s.targetBoxes[key]

	center := s.t.Center(boxID)
	level := s.t.Levels[boxID]

	// The walk below only ever examines children, so the root is tested
	// here; it matters for the degenerate tree whose root is itself a
	// source leaf.
	if s.t.Flags[0].Has(tree.HasOwnSources) && s.adjacent(center, level, 0) {
		emit(0)
	}

	w.init(0)
	for w.cont {
		child := s.t.ChildIDs[w.morton][w.box]

		if child != 0 && s.adjacent(center, level, child) {
			flags := s.t.Flags[child]

			// child == boxID is fine here.
			if flags.Has(tree.HasOwnSources) {
				emit(child)
			}

			if flags.Has(tree.HasChildSources) {
				if err := w.push(child); err != nil {
					return err
				}
				continue
			}
		}

		w.advance(s.nchildren)
	}

	return nil
}
