package query

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
)

// Result is the outcome of a completed scan.
type Result struct {
	// Matches is the number of boards consistent with the observations.
	Matches uint64
	// Heatmap counts, per cell, the matching boards with a ship there.
	Heatmap [board.Cells]uint32
}

func (r *Result) add(b, hit, miss board.Board) {
	if !b.Contains(hit) || b.Intersects(miss) {
		return
	}
	r.Matches++
	lo, hi := b.Masked().Halves()
	for ; lo != 0; lo &= lo - 1 {
		r.Heatmap[bits.TrailingZeros64(lo)]++
	}
	for ; hi != 0; hi &= hi - 1 {
		r.Heatmap[64+bits.TrailingZeros64(hi)]++
	}
}

// Probabilities returns, per cell, the fraction of matching boards with a
// ship there. All values are zero when nothing matched.
func (r Result) Probabilities() [board.Cells]float64 {
	var p [board.Cells]float64
	if r.Matches == 0 {
		return p
	}
	for c, n := range r.Heatmap {
		p[c] = float64(n) / float64(r.Matches)
	}
	return p
}

// Support returns the cells that hold a ship in at least one matching board.
func (r Result) Support() *roaring.Bitmap {
	rb := roaring.New()
	for c, n := range r.Heatmap {
		if n > 0 {
			rb.Add(uint32(c))
		}
	}
	return rb
}

// Render draws the heatmap on g with right-aligned counts.
func (r Result) Render(g geometry.Grid) string {
	width := 1
	for _, n := range r.Heatmap {
		width = max(width, len(fmt.Sprint(n)))
	}

	var sb strings.Builder
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			idx, _ := g.Index(row, col)
			fmt.Fprintf(&sb, "%*d", width, r.Heatmap[idx])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
