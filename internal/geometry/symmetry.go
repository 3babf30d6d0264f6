package geometry

import (
	"errors"
	"slices"

	"github.com/hupe1980/salvo/internal/board"
)

// ErrNotSquare is returned when symmetries are requested for a rectangular grid.
var ErrNotSquare = errors.New("geometry: symmetries require a square grid")

// Transforms is the number of elements of the dihedral group of a square.
const Transforms = 8

// Symmetry maps boards through the eight rotations and reflections of a
// square grid.
type Symmetry struct {
	grid  Grid
	mask  board.Board
	perms [Transforms][board.Cells]uint8
}

// NewSymmetry precomputes the cell permutations for g.
func NewSymmetry(g Grid) (*Symmetry, error) {
	if !g.Valid() {
		return nil, errors.New("geometry: invalid grid")
	}
	if !g.Square() {
		return nil, ErrNotSquare
	}

	n := g.Width
	maps := [Transforms]func(x, y int) (int, int){
		func(x, y int) (int, int) { return x, y },
		func(x, y int) (int, int) { return n - 1 - x, y },         // mirror left/right
		func(x, y int) (int, int) { return x, n - 1 - y },         // mirror top/bottom
		func(x, y int) (int, int) { return n - 1 - x, n - 1 - y }, // rotate 180
		func(x, y int) (int, int) { return y, x },                 // transpose
		func(x, y int) (int, int) { return n - 1 - y, x },         // rotate 90
		func(x, y int) (int, int) { return y, n - 1 - x },         // rotate 270
		func(x, y int) (int, int) { return n - 1 - y, n - 1 - x }, // anti-transpose
	}

	s := &Symmetry{grid: g, mask: g.Mask()}
	for t, f := range maps {
		for cell := 0; cell < g.Cells(); cell++ {
			y, x, _ := g.Coord(cell)
			nx, ny := f(x, y)
			s.perms[t][cell] = uint8(ny*n + nx)
		}
	}
	return s, nil
}

// Grid returns the grid the permutations were built for.
func (s *Symmetry) Grid() Grid { return s.grid }

// Fits reports whether every cell of b lies on the grid.
func (s *Symmetry) Fits(b board.Board) bool { return s.mask.Contains(b) }

// Apply maps b through transform t (0 is the identity). Cells outside the
// grid are dropped.
func (s *Symmetry) Apply(t int, b board.Board) board.Board {
	b = b.And(s.mask)
	if t == 0 {
		return b
	}
	var out board.Board
	p := &s.perms[t]
	for c := range b.Cells() {
		out = out.With(int(p[c]))
	}
	return out
}

// Images appends the distinct images of b to dst in ascending order.
func (s *Symmetry) Images(dst []board.Board, b board.Board) []board.Board {
	start := len(dst)
	for t := 0; t < Transforms; t++ {
		img := s.Apply(t, b)
		dup := false
		for _, seen := range dst[start:] {
			if seen.Equal(img) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, img)
		}
	}
	slices.SortFunc(dst[start:], board.Board.Cmp)
	return dst
}

// Canonical returns the numerically smallest image of b.
func (s *Symmetry) Canonical(b board.Board) board.Board {
	best := b
	for t := 1; t < Transforms; t++ {
		if img := s.Apply(t, b); img.Cmp(best) < 0 {
			best = img
		}
	}
	return best
}

// IsCanonical reports whether b is the smallest of its images.
func (s *Symmetry) IsCanonical(b board.Board) bool {
	return s.Canonical(b).Equal(b)
}
