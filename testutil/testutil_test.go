package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
)

var small = geometry.Model{Grid: geometry.Grid{Width: 3, Height: 3}, Adjacency: geometry.Diagonal}

func TestBruteForceBoards(t *testing.T) {
	boards := BruteForceBoards(small, []int{3, 3})
	require.Len(t, boards, 2)

	rows := board.FromHalves(0b111_000_111, 0)
	cols := board.FromHalves(0b101_101_101, 0)
	assert.Equal(t, []board.Board{cols, rows}, boards)
}

func TestBruteForceBoards_Orthogonal(t *testing.T) {
	m := geometry.Model{Grid: geometry.Grid{Width: 2, Height: 2}, Adjacency: geometry.Orthogonal}
	// Only the two diagonals keep single cells apart.
	assert.Len(t, BruteForceBoards(m, []int{1, 1}), 2)

	m.Adjacency = geometry.Diagonal
	assert.Empty(t, BruteForceBoards(m, []int{1, 1}))
}

func TestExactFilter(t *testing.T) {
	boards := BruteForceBoards(small, []int{3, 3})

	n, h := ExactFilter(boards, board.Empty, board.Empty)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, uint32(2), h[0])
	assert.Equal(t, uint32(0), h[4])

	// Cell 1 is a ship only in the rows layout.
	n, h = ExactFilter(boards, board.Bit(1), board.Empty)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, uint32(1), h[1])
	assert.Equal(t, uint32(0), h[3])

	n, _ = ExactFilter(boards, board.Empty, board.Bit(0))
	assert.Zero(t, n)
}

func TestConstraintIsSatisfiable(t *testing.T) {
	rng := NewRNG(4711)
	boards := BruteForceBoards(geometry.Model{Grid: geometry.Grid{Width: 5, Height: 5}}, []int{3, 2})
	require.NotEmpty(t, boards)

	for range 20 {
		hit, miss := rng.Constraint(boards, 2, 3)
		assert.False(t, hit.Intersects(miss))
		n, _ := ExactFilter(boards, hit, miss)
		assert.Positive(t, n)
	}
}

func TestSample(t *testing.T) {
	rng := NewRNG(42)
	boards := BruteForceBoards(geometry.Model{Grid: geometry.Grid{Width: 5, Height: 5}}, []int{3, 2})

	s := rng.Sample(boards, 10)
	require.Len(t, s, 10)
	for i := 1; i < len(s); i++ {
		assert.Negative(t, s[i-1].Cmp(s[i]))
	}

	assert.Len(t, rng.Sample(boards[:3], 10), 3)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	m1 := rng.Mask()

	rng.Reset()
	m2 := rng.Mask()

	assert.Equal(t, m1, m2)
	assert.True(t, board.Full.Contains(m1))
}
