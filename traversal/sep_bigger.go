package traversal

import (
	"github.com/bssrdf/boxtree/tree"
)

// sepBiggerKernel emits "list 4" of one box: bigger source-carrying boxes
// that are separated from the box but were adjacent to one of its
// ancestors — boxes that became separated exactly at this box's level.
//
// Candidates are the colleagues of each proper ancestor. A candidate is
// dropped when some ancestor strictly between the box and the candidate's
// level is already separated from it: that ancestor took the candidate into
// its own list 4 and the contribution reaches the box through downward
// local-expansion translation. The inner check makes the stage O(n log^2 n)
// overall. Level 0 is never examined; the root has no colleagues.
func (s *buildState) sepBiggerKernel(key int, w *walker, emit emitFunc) error {
	boxID := boxIDFromKey(key)

	center := s.t.Center(boxID)
	boxLevel := s.t.Levels[boxID]

	currentParent := boxID
	walkLevel := int(boxLevel)

	for walkLevel > 0 {
		walkLevel--
		if walkLevel == 0 {
			break
		}
		currentParent = s.t.ParentIDs[currentParent]

		start, stop := s.colleagues.Starts[currentParent], s.colleagues.Starts[currentParent+1]
		for i := start; i < stop; i++ {
			colleague := s.colleagues.Lists[i]

			if s.adjacent(center, boxLevel, colleague) || !s.t.Flags[colleague].Has(tree.HasOwnSources) {
				continue
			}

			// Check whether a closer ancestor, strictly between this box
			// and currentParent, is already separated from the colleague.
			colleagueCenter := s.t.Center(colleague)

			checkParent := boxID
			checkLevel := int(boxLevel)
			foundCloserParent := false

			for {
				checkLevel--
				if checkLevel == walkLevel {
					break
				}
				checkParent = s.t.ParentIDs[checkParent]

				if !s.adjacent(colleagueCenter, uint8(walkLevel), checkParent) {
					foundCloserParent = true
					break
				}
			}

			if !foundCloserParent {
				emit(colleague)
			}
		}
	}

	return nil
}
