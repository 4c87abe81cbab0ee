package traversal_test

// Brute-force reference implementations of the box relations, written
// directly from their definitions. They are quadratic and only suitable for
// the small trees used in tests, but they share no code with the builder,
// so agreement is meaningful.

import (
	"math"

	"github.com/bssrdf/boxtree/tree"
)

func refLevelSize(t *tree.Tree, level uint8) float64 {
	return t.RootExtent / float64(uint64(1)<<uint(level))
}

// refAdjacent applies the adjacency predicate symmetrically from box ids.
func refAdjacent(t *tree.Tree, a, b tree.BoxID) bool {
	la, lb := t.Levels[a], t.Levels[b]

	lmax := la
	if lb > lmax {
		lmax = lb
	}
	threshold := 0.5*(refLevelSize(t, la)+refLevelSize(t, lb)) + 0.5*refLevelSize(t, lmax)

	maxDist := 0.0
	for d := 0; d < t.Dimensions; d++ {
		if dist := math.Abs(t.Centers[d][a] - t.Centers[d][b]); dist > maxDist {
			maxDist = dist
		}
	}
	return maxDist <= threshold
}

// refAncestorAtLevel walks the parent chain of b up to the given level.
func refAncestorAtLevel(t *tree.Tree, b tree.BoxID, level uint8) tree.BoxID {
	for t.Levels[b] > level {
		b = t.ParentIDs[b]
	}
	return b
}

// refAncestorsOrSelf returns b and all its proper ancestors up to the root.
func refAncestorsOrSelf(t *tree.Tree, b tree.BoxID) []tree.BoxID {
	out := []tree.BoxID{b}
	for t.Levels[b] > 0 {
		b = t.ParentIDs[b]
		out = append(out, b)
	}
	return out
}

// refIsAncestorOrSelf reports whether anc is b or a proper ancestor of b.
func refIsAncestorOrSelf(t *tree.Tree, anc, b tree.BoxID) bool {
	if t.Levels[anc] > t.Levels[b] {
		return false
	}
	return refAncestorAtLevel(t, b, t.Levels[anc]) == anc
}

// refColleagues returns all distinct same-level boxes adjacent to b.
func refColleagues(t *tree.Tree, b tree.BoxID) []tree.BoxID {
	var out []tree.BoxID
	for other := 0; other < t.NBoxes; other++ {
		o := tree.BoxID(other)
		if o == b || t.Levels[o] != t.Levels[b] {
			continue
		}
		if refAdjacent(t, b, o) {
			out = append(out, o)
		}
	}
	return out
}

// refList1 returns every own-source box adjacent to the target box.
func refList1(t *tree.Tree, tgt tree.BoxID) []tree.BoxID {
	var out []tree.BoxID
	for other := 0; other < t.NBoxes; other++ {
		o := tree.BoxID(other)
		if t.Flags[o].Has(tree.HasOwnSources) && refAdjacent(t, tgt, o) {
			out = append(out, o)
		}
	}
	return out
}

// refList2 returns the separated children of the parent-level neighborhood.
func refList2(t *tree.Tree, b tree.BoxID) []tree.BoxID {
	if b == 0 {
		return nil
	}
	parent := t.ParentIDs[b]

	parents := append([]tree.BoxID{parent}, refColleagues(t, parent)...)

	var out []tree.BoxID
	for _, p := range parents {
		for m := 0; m < t.NumChildren(); m++ {
			sib := t.ChildIDs[m][p]
			if sib == 0 {
				continue
			}
			if !refAdjacent(t, b, sib) {
				out = append(out, sib)
			}
		}
	}
	return out
}

// refList3 returns deeper boxes separated from the target whose whole
// ancestor chain down from the target's level stays adjacent to it.
func refList3(t *tree.Tree, tgt tree.BoxID) []tree.BoxID {
	var out []tree.BoxID
	for other := 0; other < t.NBoxes; other++ {
		o := tree.BoxID(other)
		if t.Levels[o] <= t.Levels[tgt] {
			continue
		}
		if refAdjacent(t, tgt, o) {
			continue
		}

		chainAdjacent := true
		for a := t.ParentIDs[o]; ; a = t.ParentIDs[a] {
			if t.Levels[a] < t.Levels[tgt] {
				break
			}
			if !refAdjacent(t, tgt, a) {
				chainAdjacent = false
				break
			}
			if t.Levels[a] == t.Levels[tgt] {
				break
			}
		}
		if chainAdjacent {
			out = append(out, o)
		}
	}
	return out
}

// refList4 returns bigger separated source boxes with the closer-ancestor
// minimality condition: every ancestor of b strictly between b and the
// candidate's level must still be adjacent to the candidate.
func refList4(t *tree.Tree, b tree.BoxID) []tree.BoxID {
	var out []tree.BoxID
	boxLevel := int(t.Levels[b])

	for level := boxLevel - 1; level >= 1; level-- {
		p := refAncestorAtLevel(t, b, uint8(level))
		for _, k := range refColleagues(t, p) {
			if !t.Flags[k].Has(tree.HasOwnSources) || refAdjacent(t, b, k) {
				continue
			}

			foundCloser := false
			for checkLevel := boxLevel - 1; checkLevel > level; checkLevel-- {
				a := refAncestorAtLevel(t, b, uint8(checkLevel))
				if !refAdjacent(t, a, k) {
					foundCloser = true
					break
				}
			}
			if !foundCloser {
				out = append(out, k)
			}
		}
	}
	return out
}

// asMultiset turns a box list into id -> multiplicity.
func asMultiset(list []tree.BoxID) map[tree.BoxID]int {
	m := make(map[tree.BoxID]int, len(list))
	for _, b := range list {
		m[b]++
	}
	return m
}
