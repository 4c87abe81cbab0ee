package traversal

import (
	"github.com/bssrdf/boxtree/tree"
)

// sepSiblingsKernel emits "list 2" of one box: the same-level children of
// parent-level colleagues that are not adjacent to the box. These are the
// well-separated boxes whose multipole expansions translate into the box's
// local expansion.
//
// The parent is enumerated as its own colleague: its children are the box's
// true siblings, which share a corner at minimum and are therefore always
// adjacent, but treating the parent uniformly keeps the candidate set the
// full parent-neighborhood kernel. The root is skipped (no parent).
func (s *buildState) sepSiblingsKernel(key int, w *walker, emit emitFunc) error {
	boxID := boxIDFromKey(key)

	parent := s.t.ParentIDs[boxID]
	if parent == boxID {
		return nil
	}

	center := s.t.Center(boxID)
	level := s.t.Levels[boxID]

	emitSeparatedChildren := func(of tree.BoxID) {
		for morton := 0; morton < s.nchildren; morton++ {
			sib := s.t.ChildIDs[morton][of]
			if sib == 0 {
				continue
			}
			if !s.adjacent(center, level, sib) {
				emit(sib)
			}
		}
	}

	emitSeparatedChildren(parent)

	start, stop := s.colleagues.Starts[parent], s.colleagues.Starts[parent+1]
	for i := start; i < stop; i++ {
		emitSeparatedChildren(s.colleagues.Lists[i])
	}

	return nil
}
