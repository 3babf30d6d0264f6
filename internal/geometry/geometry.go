// Package geometry defines the board coordinate space and the constraint
// primitives used by the generator: ship footprints, bounds, overlap and
// adjacency.
//
// Every function is total. Malformed input (out-of-range cells, unsupported
// lengths) is reported through a boolean, never a panic.
package geometry

import (
	"fmt"

	"github.com/hupe1980/salvo/internal/board"
)

// Orientation of a ship run.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", uint8(o))
	}
}

// Adjacency selects which neighbouring cells count as touching.
type Adjacency uint8

const (
	// Diagonal forbids ships from touching at edges or corners.
	// This rule reproduces the reference configuration count.
	Diagonal Adjacency = iota
	// Orthogonal forbids edge contact only; corner contact is allowed.
	Orthogonal
)

func (a Adjacency) String() string {
	switch a {
	case Diagonal:
		return "diagonal"
	case Orthogonal:
		return "orthogonal"
	default:
		return fmt.Sprintf("adjacency(%d)", uint8(a))
	}
}

// ParseAdjacency parses "diagonal" or "orthogonal".
func ParseAdjacency(s string) (Adjacency, error) {
	switch s {
	case "diagonal", "":
		return Diagonal, nil
	case "orthogonal":
		return Orthogonal, nil
	default:
		return Diagonal, fmt.Errorf("geometry: unknown adjacency %q", s)
	}
}

// Grid is a rectangular board of Width columns and Height rows.
// Cells are indexed row-major: index = row*Width + col.
type Grid struct {
	Width  int
	Height int
}

// Standard is the 9x9 board.
var Standard = Grid{Width: 9, Height: 9}

// Valid reports whether the grid fits in a board.
func (g Grid) Valid() bool {
	return g.Width > 0 && g.Height > 0 && g.Width*g.Height <= board.Cells
}

// Cells returns the number of cells on the grid.
func (g Grid) Cells() int { return g.Width * g.Height }

// Square reports whether the grid has equal sides.
func (g Grid) Square() bool { return g.Width == g.Height }

// Index returns the cell index of (row, col).
func (g Grid) Index(row, col int) (int, bool) {
	if !g.ContainsCoord(row, col) {
		return 0, false
	}
	return row*g.Width + col, true
}

// Coord returns the (row, col) of a cell index.
func (g Grid) Coord(cell int) (row, col int, ok bool) {
	if cell < 0 || cell >= g.Cells() {
		return 0, 0, false
	}
	return cell / g.Width, cell % g.Width, true
}

// ContainsCoord reports whether (row, col) lies on the grid.
func (g Grid) ContainsCoord(row, col int) bool {
	return row >= 0 && row < g.Height && col >= 0 && col < g.Width
}

// Mask returns a board with every grid cell set.
func (g Grid) Mask() board.Board {
	var m board.Board
	for c := 0; c < g.Cells() && c < board.Cells; c++ {
		m = m.With(c)
	}
	return m
}

// InBounds reports whether every cell of cells lies on the grid.
func (g Grid) InBounds(cells board.Board) bool {
	return g.Mask().Contains(cells)
}

// CellsOf returns the footprint of a ship of the given length starting at
// start and extending right (Horizontal) or down (Vertical). ok is false if
// any part of the ship falls off the grid.
func (g Grid) CellsOf(start int, o Orientation, length int) (cells board.Board, ok bool) {
	row, col, ok := g.Coord(start)
	if !ok || length <= 0 {
		return board.Empty, false
	}

	for i := 0; i < length; i++ {
		r, c := row, col
		switch o {
		case Horizontal:
			c += i
		case Vertical:
			r += i
		default:
			return board.Empty, false
		}
		idx, ok := g.Index(r, c)
		if !ok {
			return board.Empty, false
		}
		cells = cells.With(idx)
	}
	return cells, true
}

// Overlaps reports whether a and b share a cell.
func Overlaps(a, b board.Board) bool {
	return a.Intersects(b)
}

// Neighbours returns the cells adjacent to cell under adj, excluding cell itself.
func (g Grid) Neighbours(cell int, adj Adjacency) board.Board {
	row, col, ok := g.Coord(cell)
	if !ok {
		return board.Empty
	}

	var n board.Board
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if adj == Orthogonal && dr != 0 && dc != 0 {
				continue
			}
			if idx, ok := g.Index(row+dr, col+dc); ok {
				n = n.With(idx)
			}
		}
	}
	return n
}

// Halo returns cells together with every cell adjacent to them.
func (g Grid) Halo(cells board.Board, adj Adjacency) board.Board {
	h := cells
	for c := range cells.Cells() {
		h = h.Or(g.Neighbours(c, adj))
	}
	return h
}

// Touches reports whether any cell of a is adjacent to any cell of b.
// A footprint never touches itself.
func (g Grid) Touches(a, b board.Board, adj Adjacency) bool {
	if a.Equal(b) {
		return false
	}
	ring := g.Halo(a, adj).AndNot(a)
	return ring.Intersects(b)
}
