// Package generator enumerates every legal fleet layout exactly once.
//
// Ships of equal length are interchangeable, so the search places them as an
// unordered group: each ship of a group must take a placement strictly after
// the previous one in canonical order. Every placement set is therefore
// visited once, and no deduplication pass is needed.
//
// The search keeps a single blocked mask (occupied cells plus their halo).
// A candidate whose footprint intersects the blocked mask would overlap or
// touch an earlier ship and is pruned.
package generator

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
)

// ErrStopped is returned by Each when the callback asks to stop early.
var ErrStopped = errors.New("generator: stopped")

const ctxCheckInterval = 1 << 16

type options struct {
	model         geometry.Model
	fleet         Fleet
	workers       int
	canonicalOnly bool
}

// Option configures a Generator.
type Option func(*options)

// WithModel sets the grid and adjacency rule. Defaults to geometry.StandardModel.
func WithModel(m geometry.Model) Option {
	return func(o *options) { o.model = m }
}

// WithFleet sets the fleet. Defaults to StandardFleet.
func WithFleet(f Fleet) Option {
	return func(o *options) { o.fleet = f }
}

// WithWorkers bounds the parallelism of Count and Collect.
// Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCanonicalOnly emits only boards that are the smallest image under the
// symmetries of the (square) grid.
func WithCanonicalOnly() Option {
	return func(o *options) { o.canonicalOnly = true }
}

type level struct {
	length int
	count  int
	cands  []geometry.Candidate
}

// Generator enumerates legal boards for one model and fleet.
// It is immutable and safe for concurrent use.
type Generator struct {
	model   geometry.Model
	fleet   Fleet
	levels  []level
	workers int
	sym     *geometry.Symmetry
}

// New creates a Generator.
func New(optFns ...Option) (*Generator, error) {
	o := options{
		model: geometry.StandardModel,
		fleet: StandardFleet,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if err := o.model.Validate(); err != nil {
		return nil, err
	}
	if err := o.fleet.Validate(); err != nil {
		return nil, err
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	g := &Generator{
		model:   o.model,
		fleet:   slices.Clone(o.fleet),
		workers: o.workers,
	}
	for _, grp := range o.fleet.groups() {
		g.levels = append(g.levels, level{
			length: grp.length,
			count:  grp.count,
			cands:  o.model.Candidates(grp.length),
		})
	}

	if o.canonicalOnly {
		sym, err := geometry.NewSymmetry(o.model.Grid)
		if err != nil {
			return nil, err
		}
		g.sym = sym
	}
	return g, nil
}

// Model returns the generator's geometry model.
func (g *Generator) Model() geometry.Model { return g.model }

// Fleet returns a copy of the generator's fleet.
func (g *Generator) Fleet() Fleet { return slices.Clone(g.fleet) }

// search places the remaining k ships of level li, trying candidates from
// index from onwards, then descends into the next level. It returns false
// when emit asks to stop.
func (g *Generator) search(li, k, from int, blocked, occupied board.Board, emit func(board.Board) bool) bool {
	if k == 0 {
		li++
		if li == len(g.levels) {
			if g.sym != nil && !g.sym.IsCanonical(occupied) {
				return true
			}
			return emit(occupied)
		}
		k = g.levels[li].count
		from = 0
	}

	cands := g.levels[li].cands
	for i := from; i <= len(cands)-k; i++ {
		c := &cands[i]
		if c.Cells.Intersects(blocked) {
			continue
		}
		if !g.search(li, k-1, i+1, blocked.Or(c.Halo), occupied.Or(c.Cells), emit) {
			return false
		}
	}
	return true
}

// branches returns the number of independent subtrees, one per placement of
// the first ship.
func (g *Generator) branches() int {
	return len(g.levels[0].cands)
}

// searchBranch enumerates all boards whose first ship takes candidate b.
func (g *Generator) searchBranch(b int, emit func(board.Board) bool) bool {
	first := &g.levels[0].cands[b]
	return g.search(0, g.levels[0].count-1, b+1, first.Halo, first.Cells, emit)
}

// Each calls fn for every legal board in search order. Boards are not
// sorted. Returning a non-nil error from fn stops the search and is
// returned; ErrStopped may be used to stop without reporting a failure.
func (g *Generator) Each(ctx context.Context, fn func(board.Board) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		n      int
		fnErr  error
		ctxErr error
	)
	g.search(0, g.levels[0].count, 0, board.Empty, board.Empty, func(b board.Board) bool {
		n++
		if n%ctxCheckInterval == 0 {
			if ctxErr = ctx.Err(); ctxErr != nil {
				return false
			}
		}
		if fnErr = fn(b); fnErr != nil {
			return false
		}
		return true
	})

	if ctxErr != nil {
		return ctxErr
	}
	if errors.Is(fnErr, ErrStopped) {
		return nil
	}
	return fnErr
}

// Count returns the number of legal boards, searching branches in parallel.
func (g *Generator) Count(ctx context.Context) (uint64, error) {
	counts, err := g.countBranches(ctx)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, c := range counts {
		total += c
	}
	return total, nil
}

func (g *Generator) countBranches(ctx context.Context) ([]uint64, error) {
	counts := make([]uint64, g.branches())
	err := g.forEachBranch(ctx, func(ctx context.Context, b int) error {
		var n uint64
		var ctxErr error
		g.searchBranch(b, func(board.Board) bool {
			n++
			if n%ctxCheckInterval == 0 {
				if ctxErr = ctx.Err(); ctxErr != nil {
					return false
				}
			}
			return true
		})
		counts[b] = n
		return ctxErr
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Collect returns every legal board in ascending numeric order.
//
// It runs two parallel passes: the first counts each branch so the second can
// write boards straight into their final slots. Peak memory is the size of
// the result plus the sort's scratch space.
func (g *Generator) Collect(ctx context.Context) ([]board.Board, error) {
	counts, err := g.countBranches(ctx)
	if err != nil {
		return nil, err
	}

	offsets := make([]uint64, len(counts)+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}
	out := make([]board.Board, offsets[len(counts)])

	var overflow atomic.Bool
	err = g.forEachBranch(ctx, func(ctx context.Context, b int) error {
		dst := out[offsets[b]:offsets[b+1]]
		i := 0
		var ctxErr error
		g.searchBranch(b, func(v board.Board) bool {
			if i == len(dst) {
				overflow.Store(true)
				return false
			}
			dst[i] = v
			i++
			if i%ctxCheckInterval == 0 {
				if ctxErr = ctx.Err(); ctxErr != nil {
					return false
				}
			}
			return true
		})
		if ctxErr != nil {
			return ctxErr
		}
		if i != len(dst) {
			overflow.Store(true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if overflow.Load() {
		return nil, &GenerationLogicError{Index: -1, Reason: "branch sizes changed between passes"}
	}

	Sort(out)
	return out, nil
}

func (g *Generator) forEachBranch(ctx context.Context, fn func(ctx context.Context, b int) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for b := 0; b < g.branches(); b++ {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			return fn(egCtx, b)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	// The group context is cancelled once Wait returns; report the caller's.
	return ctx.Err()
}

// Sort orders boards ascending numerically, which keeps consecutive boards
// close in bit pattern for delta compression.
func Sort(boards []board.Board) {
	slices.SortFunc(boards, board.Board.Cmp)
}
