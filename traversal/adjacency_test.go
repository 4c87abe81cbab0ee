package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bssrdf/boxtree/internal/testutil"
	"github.com/bssrdf/boxtree/pkg/parallel"
	"github.com/bssrdf/boxtree/tree"
)

func stateFor(tr *tree.Tree) *buildState {
	return newBuildState(tr, parallel.DefaultConfig())
}

func adjacentIDs(s *buildState, a, b tree.BoxID) bool {
	return s.adjacent(s.t.Center(a), s.t.Levels[a], b)
}

func TestAdjacent_SelfAndContainment(t *testing.T) {
	tr := testutil.UniformTree(2, 2)
	s := stateFor(tr)

	for b := 0; b < tr.NBoxes; b++ {
		assert.True(t, adjacentIDs(s, tree.BoxID(b), tree.BoxID(b)), "box %d to itself", b)
		// The root contains every box.
		assert.True(t, adjacentIDs(s, tree.BoxID(b), 0), "box %d to root", b)
	}
}

func TestAdjacent_Symmetric(t *testing.T) {
	tr := testutil.RandomTree(2, 4, 9)
	s := stateFor(tr)

	for a := 0; a < tr.NBoxes; a++ {
		for b := 0; b < tr.NBoxes; b++ {
			assert.Equal(t,
				adjacentIDs(s, tree.BoxID(a), tree.BoxID(b)),
				adjacentIDs(s, tree.BoxID(b), tree.BoxID(a)),
				"a=%d b=%d", a, b)
		}
	}
}

// With a unit root, a level-2 box (size 0.25) and a level-1 box (size 0.5)
// are adjacent iff their center distance stays within
// 0.5*(0.25+0.5) + 0.5*0.25 = 0.5 in the L-infinity sense.
func TestAdjacent_MixedLevels(t *testing.T) {
	all := func(level int, center []float64) bool { return true }
	tr := testutil.BuildTree(testutil.TreeSpec{
		Dimensions: 2,
		RootExtent: 1,
		Refine: func(level int, center []float64) bool {
			if level == 0 {
				return true
			}
			return level == 1 && center[0] < 0 && center[1] < 0
		},
		Sources: all,
		Targets: all,
	})
	s := stateFor(tr)

	find := func(x, y float64) tree.BoxID {
		for b := 0; b < tr.NBoxes; b++ {
			if tr.Centers[0][b] == x && tr.Centers[1][b] == y {
				return tree.BoxID(b)
			}
		}
		t.Fatalf("no box at (%g, %g)", x, y)
		return 0
	}

	c1 := find(0.25, -0.25) // level 1
	c3 := find(0.25, 0.25)  // level 1

	tests := []struct {
		name string
		box  tree.BoxID
		big  tree.BoxID
		want bool
	}{
		{"face neighbor column", find(-0.125, -0.375), c1, true},  // dx=0.375
		{"inner corner diagonal", find(-0.125, -0.125), c3, true}, // dx=dy=0.375
		{"far column", find(-0.375, -0.375), c1, false},           // dx=0.625
		{"far diagonal", find(-0.375, -0.375), c3, false},
		{"edge vs diagonal leaf", find(-0.125, -0.375), c3, false}, // dy=0.625
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjacentIDs(s, tt.box, tt.big))
			assert.Equal(t, tt.want, adjacentIDs(s, tt.big, tt.box))
		})
	}
}

// Equal-level boxes sharing only a face sit exactly on the no-slack
// threshold; the half-cell slack keeps them safely adjacent.
func TestAdjacent_FaceNeighborsOnBoundary(t *testing.T) {
	tr := testutil.UniformTree(2, 2)
	s := stateFor(tr)

	a := tree.BoxID(0)
	for b := 0; b < tr.NBoxes; b++ {
		if tr.Centers[0][b] == -0.375 && tr.Centers[1][b] == -0.375 {
			a = tree.BoxID(b)
			break
		}
	}

	for b := 0; b < tr.NBoxes; b++ {
		if tr.Levels[b] != 2 {
			continue
		}
		dx := tr.Centers[0][b] - (-0.375)
		dy := tr.Centers[1][b] - (-0.375)
		// Direct neighbors (including diagonal) of the corner box.
		wantAdjacent := dx >= 0 && dx <= 0.25 && dy >= 0 && dy <= 0.25
		assert.Equal(t, wantAdjacent, adjacentIDs(s, a, tree.BoxID(b)), "box %d", b)
	}
}

func TestWalker_StackOverflow(t *testing.T) {
	w := newWalker(1)
	w.init(0)

	assert.NoError(t, w.push(1))
	assert.ErrorIs(t, w.push(2), ErrLevelStackOverflow)
}

func TestWalker_AdvancePopsExhaustedLevels(t *testing.T) {
	w := newWalker(4)
	w.init(0)

	// Descend two levels, then exhaust the morton slots of a quadtree.
	assert.NoError(t, w.push(5))
	assert.NoError(t, w.push(9))
	assert.Equal(t, 2, w.level)

	// Exhausting the deepest box pops one level per 4 slots; 7 advances
	// walk the remaining slots of both stacked boxes.
	for i := 0; i < 7; i++ {
		w.advance(4)
	}
	// Back at the start box with its saved morton advanced past slot 0.
	assert.True(t, w.cont)
	assert.Equal(t, 0, w.level)
	assert.Equal(t, tree.BoxID(0), w.box)

	for w.cont {
		w.advance(4)
	}
	assert.False(t, w.cont)
}
