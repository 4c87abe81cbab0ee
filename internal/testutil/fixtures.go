// Package testutil builds small box trees for tests.
//
// Trees are assembled breadth-first so box ids come out sorted by level, the
// numbering the traversal contract requires. Which boxes split, which
// children are materialized and which leaves carry particles is driven by
// predicates on (level, center), which keeps fixture definitions local to
// the test that needs them.
package testutil

import (
	"hash/fnv"
	"math"

	"github.com/bssrdf/boxtree/tree"
)

// TreeSpec describes a fixture tree.
type TreeSpec struct {
	// Dimensions is 2 or 3.
	Dimensions int

	// RootExtent is the root box side length. Defaults to 1.
	RootExtent float64

	// RootCenter defaults to the origin.
	RootCenter []float64

	// Refine reports whether the box at (level, center) splits into children.
	// nil means no refinement (single-box tree).
	Refine func(level int, center []float64) bool

	// Keep reports whether a child box at (level, center) is materialized.
	// nil keeps every child of a refined box. Dropping children models
	// pruned empty branches.
	Keep func(level int, center []float64) bool

	// Sources reports whether a leaf at (level, center) holds own sources.
	Sources func(level int, center []float64) bool

	// Targets reports whether a leaf at (level, center) holds own targets.
	// Ignored when SourcesAreTargets is set.
	Targets func(level int, center []float64) bool

	SourcesAreTargets bool
}

type fixtureBox struct {
	center []float64
	level  int
	parent int
}

// BuildTree materializes the spec into a validated tree.
// It panics on an invalid spec; fixtures are test-only code.
func BuildTree(spec TreeSpec) *tree.Tree {
	if spec.Dimensions != 2 && spec.Dimensions != 3 {
		panic("testutil: dimensions must be 2 or 3")
	}
	if spec.RootExtent == 0 {
		spec.RootExtent = 1
	}

	dims := spec.Dimensions
	nchildren := 1 << dims

	rootCenter := make([]float64, dims)
	copy(rootCenter, spec.RootCenter)

	boxes := []fixtureBox{{center: rootCenter, level: 0, parent: 0}}
	children := make([][]int, 1) // children[box][morton], -1 for absent
	children[0] = absentChildren(nchildren)

	// Breadth-first expansion; boxes are appended level by level, so ids
	// are sorted by level.
	for cursor := 0; cursor < len(boxes); cursor++ {
		b := boxes[cursor]
		if spec.Refine == nil || !spec.Refine(b.level, b.center) {
			continue
		}

		childExtent := spec.RootExtent / float64(uint(1)<<uint(b.level+1))
		for m := 0; m < nchildren; m++ {
			childCenter := make([]float64, dims)
			for d := 0; d < dims; d++ {
				off := childExtent / 2
				if (m>>d)&1 == 0 {
					off = -off
				}
				childCenter[d] = b.center[d] + off
			}

			if spec.Keep != nil && !spec.Keep(b.level+1, childCenter) {
				continue
			}

			boxes = append(boxes, fixtureBox{center: childCenter, level: b.level + 1, parent: cursor})
			children = append(children, absentChildren(nchildren))
			children[cursor][m] = len(boxes) - 1
		}
	}

	nboxes := len(boxes)
	nlevels := boxes[nboxes-1].level + 1

	t := &tree.Tree{
		Dimensions:        dims,
		NBoxes:            nboxes,
		NLevels:           nlevels,
		RootExtent:        spec.RootExtent,
		Centers:           make([][]float64, dims),
		Levels:            make([]uint8, nboxes),
		ParentIDs:         make([]tree.BoxID, nboxes),
		ChildIDs:          make([][]tree.BoxID, nchildren),
		LevelStartBoxNrs:  make([]tree.BoxID, nlevels+1),
		Flags:             make([]tree.Flags, nboxes),
		SourcesAreTargets: spec.SourcesAreTargets,
		Pruned:            true,
	}

	for d := 0; d < dims; d++ {
		t.Centers[d] = make([]float64, nboxes)
	}
	for m := 0; m < nchildren; m++ {
		t.ChildIDs[m] = make([]tree.BoxID, nboxes)
	}

	for i, b := range boxes {
		for d := 0; d < dims; d++ {
			t.Centers[d][i] = b.center[d]
		}
		t.Levels[i] = uint8(b.level)
		t.ParentIDs[i] = tree.BoxID(b.parent)
		for m, c := range children[i] {
			if c >= 0 {
				t.ChildIDs[m][i] = tree.BoxID(c)
				t.Flags[i] |= tree.HasChildren
			}
		}
	}

	for l := 0; l <= nlevels; l++ {
		t.LevelStartBoxNrs[l] = tree.BoxID(nboxes)
	}
	for i := nboxes - 1; i >= 0; i-- {
		t.LevelStartBoxNrs[boxes[i].level] = tree.BoxID(i)
	}

	// Leaf particle flags.
	for i, b := range boxes {
		if t.Flags[i].Has(tree.HasChildren) {
			continue
		}
		if spec.Sources != nil && spec.Sources(b.level, b.center) {
			t.Flags[i] |= tree.HasOwnSources
			if spec.SourcesAreTargets {
				t.Flags[i] |= tree.HasOwnTargets
			}
		}
		if !spec.SourcesAreTargets && spec.Targets != nil && spec.Targets(b.level, b.center) {
			t.Flags[i] |= tree.HasOwnTargets
		}
	}

	// Propagate descendant flags upward; children carry larger ids, so a
	// single reverse sweep settles the whole tree.
	for i := nboxes - 1; i > 0; i-- {
		p := boxes[i].parent
		if t.Flags[i].Has(tree.HasOwnSources) || t.Flags[i].Has(tree.HasChildSources) {
			t.Flags[p] |= tree.HasChildSources
		}
		if t.Flags[i].Has(tree.HasOwnTargets) || t.Flags[i].Has(tree.HasChildTargets) {
			t.Flags[p] |= tree.HasChildTargets
		}
	}

	if err := t.Validate(); err != nil {
		panic("testutil: fixture tree is invalid: " + err.Error())
	}
	return t
}

func absentChildren(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	return out
}

// UniformTree builds a fully refined tree of the given depth with every leaf
// carrying both sources and targets.
func UniformTree(dims, depth int) *tree.Tree {
	all := func(level int, center []float64) bool { return true }
	return BuildTree(TreeSpec{
		Dimensions: dims,
		RootExtent: 1,
		Refine:     func(level int, center []float64) bool { return level < depth },
		Sources:    all,
		Targets:    all,
	})
}

// SingleBoxTree builds the degenerate tree holding only the root, flagged
// with both own sources and own targets.
func SingleBoxTree(dims int) *tree.Tree {
	all := func(level int, center []float64) bool { return true }
	return BuildTree(TreeSpec{
		Dimensions: dims,
		RootExtent: 1,
		Sources:    all,
		Targets:    all,
	})
}

// RandomTree builds a deterministic pseudo-random adaptive tree. Refinement
// and particle placement are decided by hashing (seed, level, center), so
// the result is independent of construction order. Leaves that would end up
// empty are given sources to keep the tree pruned.
func RandomTree(dims, maxDepth int, seed uint64) *tree.Tree {
	return BuildTree(TreeSpec{
		Dimensions: dims,
		RootExtent: 1,
		Refine: func(level int, center []float64) bool {
			if level >= maxDepth {
				return false
			}
			// Always split the root so every random tree is adaptive.
			if level == 0 {
				return true
			}
			return boxHash(seed, 1, level, center)%100 < 45
		},
		Keep: func(level int, center []float64) bool {
			return boxHash(seed, 2, level, center)%100 < 85
		},
		Sources: func(level int, center []float64) bool {
			return boxHash(seed, 3, level, center)%100 < 70 ||
				boxHash(seed, 4, level, center)%100 >= 70
		},
		Targets: func(level int, center []float64) bool {
			return boxHash(seed, 4, level, center)%100 < 70
		},
	})
}

// boxHash hashes a box identity to a stable pseudo-random value. Centers of
// level-l boxes are odd multiples of extent/2^(l+1), so scaling by 2^(l+1)
// gives exact integers.
func boxHash(seed uint64, stream, level int, center []float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	put := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}

	put(seed)
	put(uint64(stream))
	put(uint64(level))
	scale := float64(uint64(1) << uint(level+1))
	for _, c := range center {
		put(uint64(int64(math.Round(c * scale))))
	}
	return h.Sum64()
}
