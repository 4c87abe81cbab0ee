package traversal_test

// Property checks against the brute-force references, run over the literal
// scenario trees and a set of seeded random adaptive trees in 2-D and 3-D.

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bssrdf/boxtree/internal/testutil"
	"github.com/bssrdf/boxtree/traversal"
	"github.com/bssrdf/boxtree/tree"
)

func invariantTrees() map[string]*tree.Tree {
	return map[string]*tree.Tree{
		"uniform-2d-depth2": testutil.UniformTree(2, 2),
		"uniform-2d-depth3": testutil.UniformTree(2, 3),
		"uniform-3d-depth1": testutil.UniformTree(3, 1),
		"refined-quadrant":  refinedQuadrantTree(),
		"single-box":        testutil.SingleBoxTree(2),
		"random-2d-seed1":   testutil.RandomTree(2, 4, 1),
		"random-2d-seed2":   testutil.RandomTree(2, 5, 2),
		"random-3d-seed3":   testutil.RandomTree(3, 3, 3),
		"random-3d-seed4":   testutil.RandomTree(3, 4, 4),
		"random-2d-deep":    testutil.RandomTree(2, 6, 5),
	}
}

func TestInvariants(t *testing.T) {
	for name, tr := range invariantTrees() {
		t.Run(name, func(t *testing.T) {
			info := build(t, tr)

			checkWellTyped(t, tr, info)
			checkColleagues(t, tr, info)
			checkList1(t, tr, info)
			checkList2(t, tr, info)
			checkList3(t, tr, info)
			checkList4(t, tr, info)
			checkLevelStarts(t, tr, info)
			checkPairCoverage(t, tr, info)
		})
	}
}

// Property 1: every emitted entry is a valid box id.
func checkWellTyped(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	for _, csr := range allLists(info) {
		require.Len(t, csr.Lists, int(csr.Starts[csr.NumKeys()]))
		for _, b := range csr.Lists {
			assert.Less(t, int(b), tr.NBoxes)
		}
	}
}

// Properties 2-5: colleague symmetry, level equality, self-exclusion and
// the colleague-free root, checked against the brute-force reference.
func checkColleagues(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	assert.Empty(t, info.Colleagues.Get(0), "root must have no colleagues")

	for b := 0; b < tr.NBoxes; b++ {
		got := info.Colleagues.Get(b)
		want := refColleagues(tr, tree.BoxID(b))
		require.Equal(t, asMultiset(want), asMultiset(got), "colleagues of box %d", b)

		for _, c := range got {
			assert.NotEqual(t, tree.BoxID(b), c, "box %d lists itself", b)
			assert.Equal(t, tr.Levels[b], tr.Levels[c], "box %d colleague %d level", b, c)
			assert.Contains(t, info.Colleagues.Get(int(c)), tree.BoxID(b),
				"colleague symmetry %d <-> %d", b, c)
		}
	}
}

// Property 6: list 1 contains exactly the adjacent own-source boxes, once.
func checkList1(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	for tn, tgt := range info.TargetBoxes {
		got := info.NeighborSourceBoxes.Get(tn)
		want := refList1(tr, tgt)
		require.Equal(t, asMultiset(want), asMultiset(got), "list 1 of target box %d", tgt)

		for _, s := range got {
			assert.Equal(t, 1, asMultiset(got)[s], "duplicate %d in list 1 of %d", s, tgt)
		}
	}
}

// Property 7: list 2 members are same-level, separated, with adjacent parents.
func checkList2(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	for b := 0; b < tr.NBoxes; b++ {
		got := info.SepSiblings.Get(b)
		want := refList2(tr, tree.BoxID(b))
		require.Equal(t, asMultiset(want), asMultiset(got), "list 2 of box %d", b)

		for _, s := range got {
			assert.Equal(t, tr.Levels[b], tr.Levels[s])
			assert.False(t, refAdjacent(tr, tree.BoxID(b), s))
			assert.True(t, refAdjacent(tr, tr.ParentIDs[b], tr.ParentIDs[s]))
		}
	}
}

// Property 8: list 3 members are smaller, separated, with adjacent parents.
func checkList3(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	for tn, tgt := range info.TargetBoxes {
		got := info.SepSmallerNonsiblings.Get(tn)
		want := refList3(tr, tgt)
		require.Equal(t, asMultiset(want), asMultiset(got), "list 3 of target box %d", tgt)

		for _, s := range got {
			assert.Greater(t, tr.Levels[s], tr.Levels[tgt])
			assert.False(t, refAdjacent(tr, tgt, s))
			assert.True(t, refAdjacent(tr, tgt, tr.ParentIDs[s]))
		}
	}
}

// Property 9: list 4 members are bigger, separated own-source boxes with no
// closer separated ancestor.
func checkList4(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	for b := 0; b < tr.NBoxes; b++ {
		got := info.SepBiggerNonsiblings.Get(b)
		want := refList4(tr, tree.BoxID(b))
		require.Equal(t, asMultiset(want), asMultiset(got), "list 4 of box %d", b)

		for _, s := range got {
			assert.Less(t, tr.Levels[s], tr.Levels[b])
			assert.False(t, refAdjacent(tr, tree.BoxID(b), s))
			assert.True(t, tr.Flags[s].Has(tree.HasOwnSources))
		}
	}
}

// Property 11: level-start indexing round-trips each partition.
func checkLevelStarts(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	check := func(name string, boxList []tree.BoxID, levelStarts []int64) {
		require.Len(t, levelStarts, tr.NLevels+1, name)
		require.Equal(t, int64(0), levelStarts[0], name)
		require.Equal(t, int64(len(boxList)), levelStarts[tr.NLevels], name)

		total := 0
		for l := 0; l < tr.NLevels; l++ {
			lo, hi := levelStarts[l], levelStarts[l+1]
			require.LessOrEqual(t, lo, hi, "%s level %d", name, l)
			for _, b := range boxList[lo:hi] {
				assert.Equal(t, uint8(l), tr.Levels[b], "%s level %d box %d", name, l, b)
			}
			total += int(hi - lo)
		}
		assert.Equal(t, len(boxList), total, name)
	}

	check("source_boxes", info.SourceBoxes, info.LevelStartSourceBoxNrs)
	check("source_parent_boxes", info.SourceParentBoxes, info.LevelStartSourceParentBoxNrs)
	check("target_boxes", info.TargetBoxes, info.LevelStartTargetBoxNrs)
}

// Property 10: every (target box, own-source box) pair is accounted for
// exactly once by the union of the four interaction lists, allowing shifts
// up the ancestor chain of either side:
//
//   - direct interaction via list 1 of the target;
//   - multipole-to-local via list 2 of some ancestor-or-self of the target,
//     where the list entry's multipole covers the source box;
//   - multipole-to-particle via list 3 of the target;
//   - particle-to-local via list 4 of some ancestor-or-self of the target.
func checkPairCoverage(t *testing.T, tr *tree.Tree, info *traversal.Info) {
	targetNumberOf := make(map[tree.BoxID]int, len(info.TargetBoxes))
	for tn, b := range info.TargetBoxes {
		targetNumberOf[b] = tn
	}

	for _, tgt := range info.TargetBoxes {
		tn := targetNumberOf[tgt]
		tgtAncestors := refAncestorsOrSelf(tr, tgt)

		for s := 0; s < tr.NBoxes; s++ {
			src := tree.BoxID(s)
			if !tr.Flags[src].Has(tree.HasOwnSources) {
				continue
			}

			ways := 0
			var via []string

			for _, b := range info.NeighborSourceBoxes.Get(tn) {
				if b == src {
					ways++
					via = append(via, "list1")
				}
			}

			for _, a := range tgtAncestors {
				for _, b := range info.SepSiblings.Get(int(a)) {
					if refIsAncestorOrSelf(tr, b, src) {
						ways++
						via = append(via, fmt.Sprintf("list2@%d", a))
					}
				}
				for _, k := range info.SepBiggerNonsiblings.Get(int(a)) {
					if k == src {
						ways++
						via = append(via, fmt.Sprintf("list4@%d", a))
					}
				}
			}

			for _, b := range info.SepSmallerNonsiblings.Get(tn) {
				if refIsAncestorOrSelf(tr, b, src) {
					ways++
					via = append(via, "list3")
				}
			}

			assert.Equal(t, 1, ways,
				"pair (target %d, source %d) covered %d times via %v", tgt, src, ways, via)
		}
	}
}
