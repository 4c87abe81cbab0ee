package traversal

import (
	"math"
	"runtime"

	"github.com/bssrdf/boxtree/pkg/parallel"
	"github.com/bssrdf/boxtree/tree"
)

// buildState carries the per-build working data shared by all stages. The
// tree is read-only; targetBoxes and colleagues are filled by earlier stages
// before the stages that read them run.
type buildState struct {
	t   *tree.Tree
	cfg parallel.Config

	dims      int
	nchildren int

	// levelSizes[l] is the box side length at level l.
	levelSizes []float64

	// maxLevels bounds the walk stack depth, rounded up to the next
	// multiple of ten like the stack bound of the kernel templates this
	// builder is modeled on.
	maxLevels int

	targetBoxes []tree.BoxID
	colleagues  CSR
}

func newBuildState(t *tree.Tree, cfg parallel.Config) *buildState {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	levelSizes := make([]float64, t.NLevels)
	size := t.RootExtent
	for l := 0; l < t.NLevels; l++ {
		levelSizes[l] = size
		size /= 2
	}

	return &buildState{
		t:          t,
		cfg:        cfg,
		dims:       t.Dimensions,
		nchildren:  t.NumChildren(),
		levelSizes: levelSizes,
		maxLevels:  (t.NLevels + 9) / 10 * 10,
	}
}

// boxIDFromKey converts a stage key into a box id, for the stages whose
// keys are box ids rather than target box numbers.
func boxIDFromKey(key int) tree.BoxID { return tree.BoxID(key) }

// adjacent reports whether the box with the given center and level is
// adjacent to or overlapping the other box.
//
// The boxes are compared in the L-infinity metric with an amount of slack
// corresponding to half the width of the smaller of the two boxes. Without
// the slack, two equal-level boxes sharing only a face would fail the
// comparison to round-off.
func (s *buildState) adjacent(center [3]float64, level uint8, other tree.BoxID) bool {
	otherLevel := s.t.Levels[other]

	maxLevel := level
	if otherLevel > maxLevel {
		maxLevel = otherLevel
	}
	sizeSum := 0.5 * (s.levelSizes[level] + s.levelSizes[otherLevel])
	slack := sizeSum + 0.5*s.levelSizes[maxLevel]

	maxDist := math.Abs(center[0] - s.t.Centers[0][other])
	if d := math.Abs(center[1] - s.t.Centers[1][other]); d > maxDist {
		maxDist = d
	}
	if s.dims == 3 {
		if d := math.Abs(center[2] - s.t.Centers[2][other]); d > maxDist {
			maxDist = d
		}
	}

	return maxDist <= slack
}
