package traversal

import (
	"github.com/bssrdf/boxtree/pkg/errors"
	"github.com/bssrdf/boxtree/tree"
)

// walker performs an iterative depth-first descent over the tree with an
// explicit (box, morton) stack. One walker is allocated per task and reused
// across the keys of its chunk; its stack capacity is fixed at the state's
// maxLevels, so descent can never recurse past the preallocated depth
// without being reported.
type walker struct {
	boxStack    []tree.BoxID
	mortonStack []int

	// level is the current stack depth. When a walk starts at the root it
	// equals the tree level of box.
	level  int
	box    tree.BoxID
	morton int
	cont   bool
}

func newWalker(maxLevels int) *walker {
	return &walker{
		boxStack:    make([]tree.BoxID, maxLevels),
		mortonStack: make([]int, maxLevels),
	}
}

// init resets the walker to the given start box.
func (w *walker) init(start tree.BoxID) {
	w.level = 0
	w.box = start
	w.morton = 0
	w.cont = true
}

// push descends into child, saving the current position.
func (w *walker) push(child tree.BoxID) error {
	if w.level >= len(w.boxStack) {
		return errors.ErrLevelStackOverflow
	}
	w.boxStack[w.level] = w.box
	w.mortonStack[w.level] = w.morton
	w.level++
	w.box = child
	w.morton = 0
	return nil
}

// advance moves to the next morton slot, popping exhausted boxes off the
// stack. When the start box itself is exhausted, cont turns false.
func (w *walker) advance(nchildren int) {
	for {
		w.morton++
		if w.morton < nchildren {
			return
		}

		// Ran out of children; pull the next box off the stack and
		// advance it.
		if w.level > 0 {
			w.level--
			w.box = w.boxStack[w.level]
			w.morton = w.mortonStack[w.level]
		} else {
			w.cont = false
			return
		}
	}
}
