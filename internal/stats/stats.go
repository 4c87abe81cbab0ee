// Package stats derives summary statistics from a built traversal.
package stats

import (
	"fmt"
	"strings"

	"github.com/bssrdf/boxtree/traversal"
	"github.com/bssrdf/boxtree/tree"
)

// ListStats summarizes one compressed sparse interaction list.
type ListStats struct {
	Name       string  `json:"name"`
	Keys       int     `json:"keys"`
	Total      int64   `json:"total"`
	MinPerKey  int64   `json:"min_per_key"`
	MaxPerKey  int64   `json:"max_per_key"`
	MeanPerKey float64 `json:"mean_per_key"`
	// PerLevel holds entry totals grouped by the level of the key's box.
	PerLevel []int64 `json:"per_level"`
}

// Summary aggregates the statistics of a whole traversal build.
type Summary struct {
	Dimensions        int         `json:"dimensions"`
	NBoxes            int         `json:"nboxes"`
	NLevels           int         `json:"nlevels"`
	NSourceBoxes      int         `json:"nsource_boxes"`
	NTargetBoxes      int         `json:"ntarget_boxes"`
	NSourceParents    int         `json:"nsource_parent_boxes"`
	SourcesAreTargets bool        `json:"sources_are_targets"`
	Lists             []ListStats `json:"lists"`
}

// Summarize computes the summary of a traversal.
func Summarize(info *traversal.Info) Summary {
	t := info.Tree

	// Keys of the per-target lists are target box numbers; map them back to
	// boxes for the per-level breakdown.
	boxIDKey := func(key int) tree.BoxID { return tree.BoxID(key) }
	targetKey := func(key int) tree.BoxID { return info.TargetBoxes[key] }

	return Summary{
		Dimensions:        t.Dimensions,
		NBoxes:            t.NBoxes,
		NLevels:           t.NLevels,
		NSourceBoxes:      len(info.SourceBoxes),
		NTargetBoxes:      len(info.TargetBoxes),
		NSourceParents:    len(info.SourceParentBoxes),
		SourcesAreTargets: t.SourcesAreTargets,
		Lists: []ListStats{
			forList("colleagues", info.Colleagues, t, boxIDKey),
			forList("neighbor_source_boxes", info.NeighborSourceBoxes, t, targetKey),
			forList("sep_siblings", info.SepSiblings, t, boxIDKey),
			forList("sep_smaller_nonsiblings", info.SepSmallerNonsiblings, t, targetKey),
			forList("sep_bigger_nonsiblings", info.SepBiggerNonsiblings, t, boxIDKey),
		},
	}
}

func forList(name string, csr traversal.CSR, t *tree.Tree, keyBox func(int) tree.BoxID) ListStats {
	s := ListStats{
		Name:     name,
		Keys:     csr.NumKeys(),
		PerLevel: make([]int64, t.NLevels),
	}

	for key := 0; key < csr.NumKeys(); key++ {
		n := csr.Starts[key+1] - csr.Starts[key]
		s.Total += n
		if key == 0 || n < s.MinPerKey {
			s.MinPerKey = n
		}
		if n > s.MaxPerKey {
			s.MaxPerKey = n
		}
		s.PerLevel[t.Levels[keyBox(key)]] += n
	}

	if s.Keys > 0 {
		s.MeanPerKey = float64(s.Total) / float64(s.Keys)
	}
	return s
}

// Format renders the summary as a fixed-width table for CLI output.
func (s Summary) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "tree: %dD, %d boxes, %d levels\n", s.Dimensions, s.NBoxes, s.NLevels)
	fmt.Fprintf(&b, "partitions: %d source, %d target, %d source-parent",
		s.NSourceBoxes, s.NTargetBoxes, s.NSourceParents)
	if s.SourcesAreTargets {
		b.WriteString(" (targets alias sources)")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%-26s %10s %12s %8s %8s %10s\n",
		"list", "keys", "total", "min", "max", "mean")
	for _, l := range s.Lists {
		fmt.Fprintf(&b, "%-26s %10d %12d %8d %8d %10.2f\n",
			l.Name, l.Keys, l.Total, l.MinPerKey, l.MaxPerKey, l.MeanPerKey)
	}

	return b.String()
}

// FormatPerLevel renders the per-level entry totals of every list.
func (s Summary) FormatPerLevel() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-26s", "list")
	for l := 0; l < s.NLevels; l++ {
		fmt.Fprintf(&b, " %9s", fmt.Sprintf("lvl%d", l))
	}
	b.WriteString("\n")

	for _, l := range s.Lists {
		fmt.Fprintf(&b, "%-26s", l.Name)
		for _, n := range l.PerLevel {
			fmt.Fprintf(&b, " %9d", n)
		}
		b.WriteString("\n")
	}

	return b.String()
}
