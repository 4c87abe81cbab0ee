package traversal

import (
	"github.com/bssrdf/boxtree/tree"
)

// sepSmallerKernel emits "list 3" of one target box: smaller boxes that are
// separated from the target but whose parent is still adjacent to it. The
// key is a target box number, an index into targetBoxes.
//
// For each colleague the walk descends with the invariant that the current
// walk box is adjacent to the target: colleagues are adjacent by
// definition, and the walk only descends into adjacent children. A
// separated child is emitted without descending — its whole subtree is
// separated as well and is covered by the local expansion shifted down from
// the child.
func (s *buildState) sepSmallerKernel(key int, w *walker, emit emitFunc) error {
	boxID := s.targetBoxes[key]

	center := s.t.Center(boxID)
	level := s.t.Levels[boxID]

	start, stop := s.colleagues.Starts[boxID], s.colleagues.Starts[boxID+1]
	for i := start; i < stop; i++ {
		colleague := s.colleagues.Lists[i]

		w.init(colleague)
		for w.cont {
			child := s.t.ChildIDs[w.morton][w.box]

			if child != 0 {
				if s.adjacent(center, level, child) {
					// An adjacent leaf is already covered by list 1.
					if s.t.Flags[child].Has(tree.HasChildren) {
						if err := w.push(child); err != nil {
							return err
						}
						continue
					}
				} else {
					emit(child)
				}
			}

			w.advance(s.nchildren)
		}
	}

	return nil
}
