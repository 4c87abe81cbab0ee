// Package traversal builds the FMM interaction lists of a pruned box tree.
//
// Given an immutable tree, the builder computes the source/target box
// partitions, the per-list level indices and the five classical box
// relations — colleagues plus interaction lists 1 through 4 — as compressed
// sparse adjacency data. Terminology follows Carrier, Greengard and Rokhlin,
// "A Fast Adaptive Multipole Algorithm for Particle Simulations" (1988).
//
// Each list is produced by a data-parallel map over independent keys (box
// ids or target box numbers) using strict two-pass emission: a counting
// pass, a prefix sum, then a fill pass into precomputed offsets. Stages run
// sequentially with a barrier between producer and consumer.
package traversal

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/bssrdf/boxtree/pkg/errors"
	"github.com/bssrdf/boxtree/pkg/parallel"
	"github.com/bssrdf/boxtree/pkg/utils"
	"github.com/bssrdf/boxtree/tree"
)

// CSR is a compressed sparse list-of-lists: the entries of key k live in
// Lists[Starts[k]:Starts[k+1]].
type CSR struct {
	Starts []int64      `json:"starts"`
	Lists  []tree.BoxID `json:"lists"`
}

// Get returns the list slice for the given key.
func (c CSR) Get(key int) []tree.BoxID {
	return c.Lists[c.Starts[key]:c.Starts[key+1]]
}

// NumKeys returns the number of keys.
func (c CSR) NumKeys() int {
	if len(c.Starts) == 0 {
		return 0
	}
	return len(c.Starts) - 1
}

// Info holds the result of a traversal build. It is immutable after
// construction.
type Info struct {
	// Tree is the input tree the lists refer to.
	Tree *tree.Tree `json:"-"`

	// SourceBoxes lists boxes having own sources, in increasing box id.
	SourceBoxes []tree.BoxID `json:"source_boxes"`

	// TargetBoxes lists boxes having own targets, in increasing box id.
	// If the tree has SourcesAreTargets set, TargetBoxes aliases
	// SourceBoxes (same backing array).
	TargetBoxes []tree.BoxID `json:"target_boxes"`

	// SourceParentBoxes lists boxes that are a parent (direct or indirect)
	// of a source box. These carry multipole expansions during upward
	// merging and may have sources of their own.
	SourceParentBoxes []tree.BoxID `json:"source_parent_boxes"`

	// LevelStartSourceBoxNrs indexes SourceBoxes by level; length nlevels+1.
	LevelStartSourceBoxNrs []int64 `json:"level_start_source_box_nrs"`

	// LevelStartSourceParentBoxNrs indexes SourceParentBoxes by level.
	LevelStartSourceParentBoxNrs []int64 `json:"level_start_source_parent_box_nrs"`

	// LevelStartTargetBoxNrs indexes TargetBoxes by level.
	LevelStartTargetBoxNrs []int64 `json:"level_start_target_box_nrs"`

	// Colleagues holds, per box id, the distinct same-level boxes adjacent
	// to or overlapping that box.
	Colleagues CSR `json:"colleagues"`

	// NeighborSourceBoxes is "list 1": per target box number, the adjacent
	// leaf source boxes at any level. A box may appear in its own list.
	NeighborSourceBoxes CSR `json:"neighbor_source_boxes"`

	// SepSiblings is "list 2": per box id, the well-separated same-level
	// children of parent-level colleagues.
	SepSiblings CSR `json:"sep_siblings"`

	// SepSmallerNonsiblings is "list 3": per target box number, the
	// separated smaller boxes whose parent is still adjacent.
	SepSmallerNonsiblings CSR `json:"sep_smaller_nonsiblings"`

	// SepBiggerNonsiblings is "list 4": per box id, the separated bigger
	// source boxes that became separated exactly at this box's level.
	SepBiggerNonsiblings CSR `json:"sep_bigger_nonsiblings"`

	// Stats records how the build went; it is not part of the downstream
	// FMM contract.
	Stats BuildStats `json:"stats"`
}

// BuildStats records wall-clock timings of a build.
type BuildStats struct {
	Workers     int           `json:"workers"`
	Stages      []utils.Phase `json:"stages"`
	TotalMillis int64         `json:"total_millis"`
}

// GetBoxList returns the list slice of one of the five compressed sparse
// lists by field name: "colleagues", "neighbor_source_boxes",
// "sep_siblings", "sep_smaller_nonsiblings" or "sep_bigger_nonsiblings".
func (info *Info) GetBoxList(name string, key int) ([]tree.BoxID, error) {
	csr, err := info.listByName(name)
	if err != nil {
		return nil, err
	}
	if key < 0 || key >= csr.NumKeys() {
		return nil, fmt.Errorf("key %d out of range for %q (have %d keys)", key, name, csr.NumKeys())
	}
	return csr.Get(key), nil
}

func (info *Info) listByName(name string) (CSR, error) {
	switch name {
	case "colleagues":
		return info.Colleagues, nil
	case "neighbor_source_boxes":
		return info.NeighborSourceBoxes, nil
	case "sep_siblings":
		return info.SepSiblings, nil
	case "sep_smaller_nonsiblings":
		return info.SepSmallerNonsiblings, nil
	case "sep_bigger_nonsiblings":
		return info.SepBiggerNonsiblings, nil
	default:
		return CSR{}, fmt.Errorf("unknown box list %q", name)
	}
}

// ListNames enumerates the names accepted by GetBoxList.
func ListNames() []string {
	return []string{
		"colleagues",
		"neighbor_source_boxes",
		"sep_siblings",
		"sep_smaller_nonsiblings",
		"sep_bigger_nonsiblings",
	}
}

// Builder builds traversal Info values. A Builder is stateless between
// builds and safe for concurrent use.
type Builder struct {
	cfg    parallel.Config
	logger utils.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers sets the number of worker goroutines per stage.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.cfg = b.cfg.WithWorkers(n) }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l utils.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		cfg:    parallel.DefaultConfig(),
		logger: &utils.NullLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is a convenience wrapper around NewBuilder(opts...).Build.
func Build(ctx context.Context, t *tree.Tree, opts ...Option) (*Info, error) {
	return NewBuilder(opts...).Build(ctx, t)
}

// Build computes the traversal of t. Errors abort the whole build; no
// partial Info is ever returned.
func (b *Builder) Build(ctx context.Context, t *tree.Tree) (*Info, error) {
	if t == nil {
		return nil, errors.ErrInvalidTree
	}
	if t.Dimensions != 2 && t.Dimensions != 3 {
		return nil, errors.Wrap(errors.CodeUnsupportedDimension,
			fmt.Sprintf("dimensions must be 2 or 3, got %d", t.Dimensions), nil)
	}
	if !t.Pruned {
		return nil, errors.ErrTreeNotPruned
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidTree, "tree validation failed", err)
	}

	s := newBuildState(t, b.cfg)
	tracer := otel.Tracer("github.com/bssrdf/boxtree/traversal")
	timer := utils.NewTimer("traversal")

	b.logger.Info("start building traversal: nboxes=%d nlevels=%d dims=%d",
		t.NBoxes, t.NLevels, t.Dimensions)

	runStage := func(name string, fn func(ctx context.Context) error) error {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.CodeCancelled, "build cancelled", err)
		}
		sctx, span := tracer.Start(ctx, "traversal."+name)
		defer span.End()

		pt := timer.Start(name)
		err := fn(sctx)
		d := pt.Stop()

		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return errors.Wrap(errors.CodeCancelled, "build cancelled", err)
			}
			return err
		}
		b.logger.Debug("stage %s done in %s", name, d)
		return nil
	}

	info := &Info{Tree: t}

	// S0: partition boxes into sources, source parents and targets.
	if err := runStage("classify", func(ctx context.Context) error {
		return s.classifyBoxes(ctx, info)
	}); err != nil {
		return nil, err
	}

	// S1: level-start indices into the partitions.
	if err := runStage("level_starts", func(ctx context.Context) error {
		var err error
		if info.LevelStartSourceBoxNrs, err = s.extractLevelStarts(ctx, info.SourceBoxes); err != nil {
			return err
		}
		if info.LevelStartSourceParentBoxNrs, err = s.extractLevelStarts(ctx, info.SourceParentBoxes); err != nil {
			return err
		}
		if t.SourcesAreTargets {
			info.LevelStartTargetBoxNrs = info.LevelStartSourceBoxNrs
			return nil
		}
		info.LevelStartTargetBoxNrs, err = s.extractLevelStarts(ctx, info.TargetBoxes)
		return err
	}); err != nil {
		return nil, err
	}

	s.targetBoxes = info.TargetBoxes

	// S2: colleagues; consumed by lists 2, 3 and 4.
	if err := runStage("colleagues", func(ctx context.Context) error {
		var err error
		info.Colleagues, err = s.buildCSR(ctx, t.NBoxes, s.colleaguesKernel)
		s.colleagues = info.Colleagues
		return err
	}); err != nil {
		return nil, err
	}

	// S3: list 1.
	if err := runStage("neighbor_source_boxes", func(ctx context.Context) error {
		var err error
		info.NeighborSourceBoxes, err = s.buildCSR(ctx, len(s.targetBoxes), s.neighborSourcesKernel)
		return err
	}); err != nil {
		return nil, err
	}

	// S4: list 2.
	if err := runStage("sep_siblings", func(ctx context.Context) error {
		var err error
		info.SepSiblings, err = s.buildCSR(ctx, t.NBoxes, s.sepSiblingsKernel)
		return err
	}); err != nil {
		return nil, err
	}

	// S5: list 3.
	if err := runStage("sep_smaller_nonsiblings", func(ctx context.Context) error {
		var err error
		info.SepSmallerNonsiblings, err = s.buildCSR(ctx, len(s.targetBoxes), s.sepSmallerKernel)
		return err
	}); err != nil {
		return nil, err
	}

	// S6: list 4.
	if err := runStage("sep_bigger_nonsiblings", func(ctx context.Context) error {
		var err error
		info.SepBiggerNonsiblings, err = s.buildCSR(ctx, t.NBoxes, s.sepBiggerKernel)
		return err
	}); err != nil {
		return nil, err
	}

	info.Stats = BuildStats{
		Workers:     s.cfg.Workers,
		Stages:      timer.Phases(),
		TotalMillis: timer.Total().Milliseconds(),
	}

	b.logger.Info("traversal built in %s", timer.Total())
	return info, nil
}
