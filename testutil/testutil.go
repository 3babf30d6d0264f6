package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Mask returns a random board restricted to the addressable cells.
func (r *RNG) Mask() board.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	return board.FromHalves(r.rand.Uint64(), r.rand.Uint64()).Masked()
}

// Sample returns n distinct boards picked from boards, in their original order.
func (r *RNG) Sample(boards []board.Board, n int) []board.Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	n = min(n, len(boards))
	idx := r.rand.Perm(len(boards))[:n]
	slices.Sort(idx)

	out := make([]board.Board, n)
	for i, j := range idx {
		out[i] = boards[j]
	}
	return out
}

// Constraint derives a satisfiable hit/miss pair from a random board:
// up to hits ship cells and up to misses water cells of the chosen board.
// It returns empty masks when boards is empty.
func (r *RNG) Constraint(boards []board.Board, hits, misses int) (hit, miss board.Board) {
	if len(boards) == 0 {
		return board.Empty, board.Empty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := boards[r.rand.Intn(len(boards))]
	water := board.Full.AndNot(b)

	hit = r.pickLocked(b, hits)
	miss = r.pickLocked(water, misses)
	return hit, miss
}

// pickLocked returns up to n random cells of from (caller must hold lock).
func (r *RNG) pickLocked(from board.Board, n int) board.Board {
	cells := from.AppendCells(nil)
	r.rand.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	var out board.Board
	for _, c := range cells[:min(n, len(cells))] {
		out = out.With(c)
	}
	return out
}

// BruteForceBoards enumerates legal boards by trying every ordered
// assignment of placements to ships and keeping the distinct results.
// It is exponential and only meant for small grids. The result is sorted.
func BruteForceBoards(m geometry.Model, fleet []int) []board.Board {
	cands := make([][]geometry.Candidate, len(fleet))
	for i, l := range fleet {
		cands[i] = m.Candidates(l)
	}

	seen := make(map[board.Board]struct{})
	placed := make([]board.Board, 0, len(fleet))

	var rec func(i int)
	rec = func(i int) {
		if i == len(fleet) {
			var b board.Board
			for _, p := range placed {
				b = b.Or(p)
			}
			seen[b] = struct{}{}
			return
		}
		for _, c := range cands[i] {
			ok := true
			for _, p := range placed {
				if geometry.Overlaps(p, c.Cells) || m.Touches(p, c.Cells) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			placed = append(placed, c.Cells)
			rec(i + 1)
			placed = placed[:len(placed)-1]
		}
	}
	rec(0)

	out := make([]board.Board, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	slices.SortFunc(out, board.Board.Cmp)
	return out
}

// ExactFilter returns the number of boards that contain every hit cell and
// no miss cell, and how many of those boards occupy each cell.
func ExactFilter(boards []board.Board, hit, miss board.Board) (uint64, [board.Cells]uint32) {
	var (
		matches uint64
		heatmap [board.Cells]uint32
	)
	for _, b := range boards {
		if !b.Contains(hit) || b.Intersects(miss) {
			continue
		}
		matches++
		for c := 0; c < board.Cells; c++ {
			if b.Has(c) {
				heatmap[c]++
			}
		}
	}
	return matches, heatmap
}

// Heatmap counts, per cell, how many boards occupy it.
func Heatmap(boards []board.Board) [board.Cells]uint64 {
	var h [board.Cells]uint64
	for _, b := range boards {
		for c := range b.Cells() {
			h[c]++
		}
	}
	return h
}
