package traversal

import "github.com/bssrdf/boxtree/pkg/errors"

// Sentinel errors returned by Build. All of them abort the whole build at a
// stage boundary; no partial Info is ever observable.
var (
	// ErrTreeNotPruned is returned when the input tree is not pruned.
	ErrTreeNotPruned = errors.ErrTreeNotPruned

	// ErrUnsupportedDimension is returned for dimensions other than 2 or 3.
	ErrUnsupportedDimension = errors.ErrUnsupportedDimension

	// ErrLevelStackOverflow is returned when a descent exceeds the
	// preallocated walk stack. The stack is sized from the tree's nlevels,
	// so this indicates an internal invariant violation, not a user error.
	ErrLevelStackOverflow = errors.ErrLevelStackOverflow

	// ErrCancelled is returned when the caller cancels the build.
	ErrCancelled = errors.ErrCancelled

	// ErrInvalidTree is returned when the tree fails structural validation.
	ErrInvalidTree = errors.ErrInvalidTree
)
