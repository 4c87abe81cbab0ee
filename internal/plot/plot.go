// Package plot renders 2-D box trees as SVG, optionally highlighting one
// box together with one of its interaction lists. This is a debugging aid
// for eyeballing list membership on small trees.
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/bssrdf/boxtree/pkg/errors"
	"github.com/bssrdf/boxtree/traversal"
	"github.com/bssrdf/boxtree/tree"
)

// Options configures a plot.
type Options struct {
	// Width is the image width in pixels; height equals width. Default 800.
	Width int

	// HighlightBox selects a box to fill, together with its HighlightList
	// members. Negative means no highlight.
	HighlightBox int

	// HighlightList is one of the traversal list names; empty highlights
	// only the box itself.
	HighlightList string
}

// DefaultOptions returns options with no highlight.
func DefaultOptions() Options {
	return Options{Width: 800, HighlightBox: -1}
}

const (
	boxStroke     = "#222222"
	queryFill     = "#2b8cbe"
	listFill      = "#fdae61"
	strokeWidth   = 1.0
	svgMarginFrac = 0.02
)

// WriteSVG renders the traversal's tree to w. Only 2-D trees can be drawn.
func WriteSVG(w io.Writer, info *traversal.Info, opts Options) error {
	t := info.Tree
	if t.Dimensions != 2 {
		return errors.Wrap(errors.CodePlotError, "can only plot 2-D trees", nil)
	}
	if opts.Width <= 0 {
		opts.Width = 800
	}

	highlighted, err := highlightSet(info, opts)
	if err != nil {
		return err
	}

	// Map the root box, plus a small margin, onto the image square.
	margin := t.RootExtent * svgMarginFrac
	span := t.RootExtent + 2*margin
	minX := t.Centers[0][0] - t.RootExtent/2 - margin
	maxY := t.Centers[1][0] + t.RootExtent/2 + margin
	scale := float64(opts.Width) / span

	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Width, opts.Width, opts.Width, opts.Width)

	for b := 0; b < t.NBoxes; b++ {
		size := t.LevelSize(int(t.Levels[b]))
		x := (t.Centers[0][b] - size/2 - minX) * scale
		// SVG y grows downward.
		y := (maxY - (t.Centers[1][b] + size/2)) * scale
		side := size * scale

		fill := "none"
		if c, ok := highlighted[tree.BoxID(b)]; ok {
			fill = c
		}

		fmt.Fprintf(w,
			`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.5" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x, y, side, side, fill, boxStroke, strokeWidth)
	}

	fmt.Fprintln(w, `</svg>`)
	return nil
}

// WriteSVGFile renders the plot to a file.
func WriteSVGFile(path string, info *traversal.Info, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.CodePlotError, fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	return WriteSVG(f, info, opts)
}

// highlightSet resolves the highlight options into box id -> fill color.
func highlightSet(info *traversal.Info, opts Options) (map[tree.BoxID]string, error) {
	out := make(map[tree.BoxID]string)
	if opts.HighlightBox < 0 {
		return out, nil
	}
	if opts.HighlightBox >= info.Tree.NBoxes {
		return nil, errors.Wrap(errors.CodePlotError,
			fmt.Sprintf("box %d out of range", opts.HighlightBox), nil)
	}

	box := tree.BoxID(opts.HighlightBox)
	out[box] = queryFill
	if opts.HighlightList == "" {
		return out, nil
	}

	key := opts.HighlightBox
	switch opts.HighlightList {
	case "neighbor_source_boxes", "sep_smaller_nonsiblings":
		// These lists are keyed by target box number.
		key = -1
		for tn, b := range info.TargetBoxes {
			if b == box {
				key = tn
				break
			}
		}
		if key < 0 {
			return nil, errors.Wrap(errors.CodePlotError,
				fmt.Sprintf("box %d is not a target box", box), nil)
		}
	}

	members, err := info.GetBoxList(opts.HighlightList, key)
	if err != nil {
		return nil, errors.Wrap(errors.CodePlotError, "failed to resolve list", err)
	}
	for _, m := range members {
		out[m] = listFill
	}
	// The query box wins if it appears in its own list.
	out[box] = queryFill

	return out, nil
}
