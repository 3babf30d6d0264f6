// Package query filters a board dataset against observed hits and misses.
//
// A scan streams the dataset once with a fixed-size buffer and keeps only
// the running board, a match counter and one counter per cell, so memory use
// does not depend on the dataset size. A scan either completes or fails as a
// whole; callers never see a partial heatmap.
package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/fs"
	"github.com/hupe1980/salvo/internal/geometry"
)

// Stdin is the path that selects standard input as the source.
const Stdin = "-"

const ctxCheckInterval = 1 << 16

var (
	// ErrSourceUnavailable indicates that the dataset could not be opened or read.
	ErrSourceUnavailable = errors.New("query: source unavailable")

	// ErrStreamCorrupt indicates a damaged dataset stream.
	ErrStreamCorrupt = dataset.ErrStreamCorrupt

	// ErrOutsideGrid is the cause of a corruption error when a dataset read
	// with symmetry expansion holds a board that does not fit the grid.
	ErrOutsideGrid = errors.New("query: board outside grid")

	// ErrScanUsed is returned when a Scan is run twice.
	ErrScanUsed = errors.New("query: scan already used")
)

// SourceError wraps a failure to open or read the dataset.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("query: source unavailable: %v", e.Err)
	}
	return fmt.Sprintf("query: source %q unavailable: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// State is the lifecycle of a Scan.
type State uint32

const (
	StateIdle State = iota
	StateStreaming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

type options struct {
	format dataset.Format
	sym    *geometry.Symmetry
	symErr error
}

// Option configures a scan.
type Option func(*options)

// WithFormat selects the record format of the dataset. Defaults to delta.
func WithFormat(f dataset.Format) Option {
	return func(o *options) { o.format = f }
}

// WithExpandSymmetries treats every stored board as the representative of
// its symmetry class on grid g and matches each distinct image. Use it for
// datasets written with only canonical boards.
func WithExpandSymmetries(g geometry.Grid) Option {
	return func(o *options) {
		o.sym, o.symErr = geometry.NewSymmetry(g)
	}
}

// Scan is a single filter pass over one dataset. State can be read from any
// goroutine while Run is in progress.
type Scan struct {
	opts  options
	state atomic.Uint32
	read  atomic.Uint64
}

// NewScan creates an idle scan.
func NewScan(optFns ...Option) *Scan {
	s := &Scan{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&s.opts)
		}
	}
	return s
}

// State reports where the scan is in its lifecycle.
func (s *Scan) State() State {
	return State(s.state.Load())
}

// Records returns the number of stored records read so far.
func (s *Scan) Records() uint64 {
	return s.read.Load()
}

// Run streams r and returns the match count and heatmap for boards that
// contain every cell of hit and none of miss. Bits outside the grid are
// ignored. On error the result is the zero value.
func (s *Scan) Run(ctx context.Context, r io.Reader, hit, miss board.Board) (Result, error) {
	if !s.state.CompareAndSwap(uint32(StateIdle), uint32(StateStreaming)) {
		return Result{}, ErrScanUsed
	}

	res, err := s.run(ctx, r, hit.Masked(), miss.Masked())
	if err != nil {
		s.state.Store(uint32(StateFailed))
		return Result{}, err
	}
	s.state.Store(uint32(StateDone))
	return res, nil
}

func (s *Scan) run(ctx context.Context, r io.Reader, hit, miss board.Board) (Result, error) {
	if s.opts.symErr != nil {
		return Result{}, s.opts.symErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dec, err := dataset.NewDecoder(r, dataset.WithReadFormat(s.opts.format))
	if err != nil {
		return Result{}, classify(err)
	}
	defer dec.Close()

	var (
		res  Result
		imgs [geometry.Transforms]board.Board
	)
	for n := uint64(1); ; n++ {
		b, err := dec.Next()
		if err == io.EOF {
			s.read.Store(n - 1)
			return res, nil
		}
		if err != nil {
			return Result{}, classify(err)
		}

		if s.opts.sym == nil {
			res.add(b, hit, miss)
		} else {
			if !s.opts.sym.Fits(b) {
				return Result{}, &dataset.CorruptError{
					Offset: int64(n-1) * dataset.RecordSize,
					Cause:  ErrOutsideGrid,
				}
			}
			for _, img := range s.opts.sym.Images(imgs[:0], b) {
				res.add(img, hit, miss)
			}
		}

		if n%ctxCheckInterval == 0 {
			s.read.Store(n)
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
	}
}

func classify(err error) error {
	if errors.Is(err, dataset.ErrStreamCorrupt) {
		return err
	}
	return &SourceError{Err: err}
}

// FilterAndCount runs a single scan over r.
func FilterAndCount(ctx context.Context, r io.Reader, hit, miss board.Board, optFns ...Option) (Result, error) {
	return NewScan(optFns...).Run(ctx, r, hit, miss)
}

// Open opens a dataset file, or standard input when path is Stdin.
// Failures are reported as *SourceError.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := fs.Default.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return f, nil
}

// FilterAndCountFile opens path and runs a single scan over it.
func FilterAndCountFile(ctx context.Context, path string, hit, miss board.Board, optFns ...Option) (Result, error) {
	rc, err := Open(path)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	res, err := FilterAndCount(ctx, rc, hit, miss, optFns...)
	var se *SourceError
	if errors.As(err, &se) && se.Path == "" {
		se.Path = path
	}
	return res, err
}
