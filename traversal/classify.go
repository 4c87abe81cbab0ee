package traversal

import (
	"context"

	"github.com/bssrdf/boxtree/pkg/parallel"
	"github.com/bssrdf/boxtree/tree"
)

// partitionChunk holds the classification output of one contiguous box
// range. Chunks are concatenated in order, so the partitions come out
// sorted by box id and therefore by level.
type partitionChunk struct {
	sources       []tree.BoxID
	sourceParents []tree.BoxID
	targets       []tree.BoxID
}

// classifyBoxes partitions the boxes of the tree by their flags into
// source boxes, source parent boxes and target boxes. When the tree's
// source and target particles coincide, the target partition aliases the
// source partition instead of being collected separately.
func (s *buildState) classifyBoxes(ctx context.Context, info *Info) error {
	collectTargets := !s.t.SourcesAreTargets

	chunks, err := parallel.MapChunks(ctx, s.cfg, s.t.NBoxes,
		func(ctx context.Context, lo, hi int) (partitionChunk, error) {
			var c partitionChunk
			for b := lo; b < hi; b++ {
				flags := s.t.Flags[b]
				if flags.Has(tree.HasOwnSources) {
					c.sources = append(c.sources, tree.BoxID(b))
				}
				if flags.Has(tree.HasChildSources) {
					c.sourceParents = append(c.sourceParents, tree.BoxID(b))
				}
				if collectTargets && flags.Has(tree.HasOwnTargets) {
					c.targets = append(c.targets, tree.BoxID(b))
				}
			}
			return c, nil
		})
	if err != nil {
		return err
	}

	var nSources, nParents, nTargets int
	for _, c := range chunks {
		nSources += len(c.sources)
		nParents += len(c.sourceParents)
		nTargets += len(c.targets)
	}

	info.SourceBoxes = make([]tree.BoxID, 0, nSources)
	info.SourceParentBoxes = make([]tree.BoxID, 0, nParents)
	for _, c := range chunks {
		info.SourceBoxes = append(info.SourceBoxes, c.sources...)
		info.SourceParentBoxes = append(info.SourceParentBoxes, c.sourceParents...)
	}

	if collectTargets {
		info.TargetBoxes = make([]tree.BoxID, 0, nTargets)
		for _, c := range chunks {
			info.TargetBoxes = append(info.TargetBoxes, c.targets...)
		}
	} else {
		info.TargetBoxes = info.SourceBoxes
	}

	return nil
}

// extractLevelStarts computes, for a box list sorted by level, the index
// where each level begins; the final entry is len(boxList). A level
// boundary sits at index i when the previous box lies below the level's
// first box id and the current box at or above it. Levels with no boxes in
// the list collapse onto the next occupied level's start by the top-down
// clamping sweep.
func (s *buildState) extractLevelStarts(ctx context.Context, boxList []tree.BoxID) ([]int64, error) {
	n := len(boxList)
	result := make([]int64, s.t.NLevels+1)
	for l := range result {
		result[l] = int64(n)
	}

	// Each index writes at most its own box's level, and only the first
	// index of a level matches the boundary condition, so the parallel
	// pass is write-conflict free.
	err := parallel.ForEachChunk(ctx, s.cfg, n-1, func(ctx context.Context, lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			i := idx + 1
			cur := boxList[i]
			prev := boxList[i-1]

			level := s.t.Levels[cur]
			levelStart := s.t.LevelStartBoxNrs[level]

			if prev < levelStart && levelStart <= cur {
				result[level] = int64(i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Index 0 was skipped above, so the boundary kernel never records the
	// list's first occupied level. Seed it here: that level starts at 0,
	// and the clamp below propagates the 0 down through every earlier
	// level. Source and target lists in an adaptive tree start at a leaf
	// level, not at the root, so forcing only level 0 would misfile the
	// whole first run of boxes.
	if n > 0 {
		result[s.t.Levels[boxList[0]]] = 0
	}
	result[0] = 0

	// Collapse unoccupied levels onto the next occupied start.
	prevStart := int64(n)
	for l := s.t.NLevels - 1; l >= 0; l-- {
		if result[l] < prevStart {
			prevStart = result[l]
		} else {
			result[l] = prevStart
		}
	}

	return result, nil
}
