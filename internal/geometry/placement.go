package geometry

import (
	"fmt"

	"github.com/hupe1980/salvo/internal/board"
)

// Placement positions one ship on the grid.
type Placement struct {
	Start       int
	Orientation Orientation
	Length      int
}

func (p Placement) String() string {
	return fmt.Sprintf("%d@%d/%s", p.Length, p.Start, p.Orientation)
}

// Less is the canonical total order on placements of equal length:
// start cell first, then Horizontal before Vertical.
func (p Placement) Less(q Placement) bool {
	if p.Start != q.Start {
		return p.Start < q.Start
	}
	return p.Orientation < q.Orientation
}

// Candidate is a placement with its precomputed masks.
type Candidate struct {
	Placement
	// Cells is the ship footprint.
	Cells board.Board
	// Halo is Cells plus every adjacent cell. A later ship is legal only if
	// its footprint does not intersect the union of earlier halos.
	Halo board.Board
}

// Model binds a grid to an adjacency rule.
type Model struct {
	Grid      Grid
	Adjacency Adjacency
}

// StandardModel is the 9x9 grid with corner contact forbidden.
var StandardModel = Model{Grid: Standard, Adjacency: Diagonal}

// Validate reports whether the model can be used for generation.
func (m Model) Validate() error {
	if !m.Grid.Valid() {
		return fmt.Errorf("geometry: grid %dx%d does not fit in %d cells", m.Grid.Width, m.Grid.Height, board.Cells)
	}
	if m.Adjacency != Diagonal && m.Adjacency != Orthogonal {
		return fmt.Errorf("geometry: invalid %s", m.Adjacency)
	}
	return nil
}

// Touches reports whether footprints a and b are adjacent under the model's rule.
func (m Model) Touches(a, b board.Board) bool {
	return m.Grid.Touches(a, b, m.Adjacency)
}

// Halo returns cells plus their neighbours under the model's rule.
func (m Model) Halo(cells board.Board) board.Board {
	return m.Grid.Halo(cells, m.Adjacency)
}

// Candidates lists every in-bounds placement of a ship of the given length
// in canonical order.
func (m Model) Candidates(length int) []Candidate {
	var out []Candidate
	for start := 0; start < m.Grid.Cells(); start++ {
		for _, o := range [...]Orientation{Horizontal, Vertical} {
			// A length-1 ship has a single footprint per cell.
			if length == 1 && o == Vertical {
				continue
			}
			cells, ok := m.Grid.CellsOf(start, o, length)
			if !ok {
				continue
			}
			out = append(out, Candidate{
				Placement: Placement{Start: start, Orientation: o, Length: length},
				Cells:     cells,
				Halo:      m.Halo(cells),
			})
		}
	}
	return out
}

// Components splits b into orthogonally connected groups of cells.
// On a legal board every component is exactly one ship.
func (m Model) Components(b board.Board) []board.Board {
	var out []board.Board
	rest := b
	for !rest.IsZero() {
		seed := board.Bit(rest.First())
		comp := seed
		frontier := seed
		for !frontier.IsZero() {
			var next board.Board
			for c := range frontier.Cells() {
				next = next.Or(m.Grid.Neighbours(c, Orthogonal))
			}
			frontier = next.And(rest).AndNot(comp)
			comp = comp.Or(frontier)
		}
		out = append(out, comp)
		rest = rest.AndNot(comp)
	}
	return out
}
