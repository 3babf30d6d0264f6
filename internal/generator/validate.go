package generator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
)

// ErrGenerationLogic indicates that a produced board breaks a placement rule.
// It always points at a defect in the search, never at user input.
var ErrGenerationLogic = errors.New("generator: generation logic error")

// GenerationLogicError describes the first offending board.
type GenerationLogicError struct {
	Board  board.Board
	Index  int
	Reason string
}

func (e *GenerationLogicError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("generator: generation logic error: %s", e.Reason)
	}
	return fmt.Sprintf("generator: generation logic error at board %d (%s): %s", e.Index, e.Board, e.Reason)
}

func (e *GenerationLogicError) Is(target error) bool {
	return target == ErrGenerationLogic
}

// CheckBoard reports why b is not a legal layout of fleet under m, or ""
// when it is legal.
func CheckBoard(m geometry.Model, fleet Fleet, b board.Board) string {
	if !m.Grid.InBounds(b) {
		return "cells outside the grid"
	}
	if got, want := b.Count(), fleet.Cells(); got != want {
		return fmt.Sprintf("popcount %d, want %d", got, want)
	}

	comps := m.Components(b)
	lengths := make([]int, 0, len(comps))
	for _, c := range comps {
		l, ok := straightLength(m.Grid, c)
		if !ok {
			return fmt.Sprintf("component at cell %d is not a straight run", c.First())
		}
		lengths = append(lengths, l)
	}
	slices.SortFunc(lengths, func(a, b int) int { return b - a })
	if !slices.Equal(lengths, fleet.Sorted()) {
		return fmt.Sprintf("ship lengths %v, want %v", lengths, []int(fleet.Sorted()))
	}

	for i := range comps {
		for j := i + 1; j < len(comps); j++ {
			if m.Touches(comps[i], comps[j]) {
				return fmt.Sprintf("ships at cells %d and %d touch", comps[i].First(), comps[j].First())
			}
		}
	}
	return ""
}

// straightLength returns the length of c if its cells form one horizontal or
// vertical run.
func straightLength(g geometry.Grid, c board.Board) (int, bool) {
	n := c.Count()
	start := c.First()
	if h, ok := g.CellsOf(start, geometry.Horizontal, n); ok && h.Equal(c) {
		return n, true
	}
	if v, ok := g.CellsOf(start, geometry.Vertical, n); ok && v.Equal(c) {
		return n, true
	}
	return 0, false
}

// Validate checks that every board is a legal layout and that the sequence
// is strictly ascending. Note that with orthogonal adjacency two ships that
// touch only at a corner are still separate components, so the check is
// exact for both rules.
func (g *Generator) Validate(ctx context.Context, boards []board.Board) error {
	for i, b := range boards {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if reason := CheckBoard(g.model, g.fleet, b); reason != "" {
			return &GenerationLogicError{Board: b, Index: i, Reason: reason}
		}
		if g.sym != nil && !g.sym.IsCanonical(b) {
			return &GenerationLogicError{Board: b, Index: i, Reason: "board is not canonical"}
		}
		if i > 0 && boards[i-1].Cmp(b) >= 0 {
			return &GenerationLogicError{Board: b, Index: i, Reason: "boards not strictly ascending"}
		}
	}
	return nil
}
