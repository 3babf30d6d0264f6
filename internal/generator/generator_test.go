package generator

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
	"github.com/hupe1980/salvo/testutil"
)

func smallModel(w, h int, adj geometry.Adjacency) geometry.Model {
	return geometry.Model{Grid: geometry.Grid{Width: w, Height: h}, Adjacency: adj}
}

func TestCollect_TwoShipsOnThreeByThree(t *testing.T) {
	g, err := New(WithModel(smallModel(3, 3, geometry.Diagonal)), WithFleet(Fleet{3, 3}))
	require.NoError(t, err)

	boards, err := g.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, boards, 2)

	assert.Equal(t, board.FromHalves(0b101_101_101, 0), boards[0])
	assert.Equal(t, board.FromHalves(0b111_000_111, 0), boards[1])
}

func TestCollect_MatchesBruteForce(t *testing.T) {
	tests := []struct {
		name  string
		model geometry.Model
		fleet Fleet
	}{
		{"4x4 two twos", smallModel(4, 4, geometry.Diagonal), Fleet{2, 2}},
		{"5x5 mixed", smallModel(5, 5, geometry.Diagonal), Fleet{3, 2, 1}},
		{"5x5 three twos", smallModel(5, 5, geometry.Diagonal), Fleet{2, 2, 2}},
		{"5x5 orthogonal", smallModel(5, 5, geometry.Orthogonal), Fleet{3, 2, 2}},
		{"6x4 rectangular", smallModel(6, 4, geometry.Diagonal), Fleet{3, 3, 1}},
		{"singles", smallModel(4, 4, geometry.Orthogonal), Fleet{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(WithModel(tt.model), WithFleet(tt.fleet), WithWorkers(3))
			require.NoError(t, err)

			want := testutil.BruteForceBoards(tt.model, tt.fleet)
			got, err := g.Collect(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)

			n, err := g.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, uint64(len(want)), n)

			require.NoError(t, g.Validate(context.Background(), got))
		})
	}
}

func TestEach_VisitsEveryBoardOnce(t *testing.T) {
	m := smallModel(5, 5, geometry.Diagonal)
	g, err := New(WithModel(m), WithFleet(Fleet{2, 2, 1}))
	require.NoError(t, err)

	seen := map[board.Board]int{}
	require.NoError(t, g.Each(context.Background(), func(b board.Board) error {
		seen[b]++
		return nil
	}))

	want := testutil.BruteForceBoards(m, Fleet{2, 2, 1})
	assert.Len(t, seen, len(want))
	for _, b := range want {
		assert.Equal(t, 1, seen[b], "board %s", b)
	}
}

func TestEach_Stop(t *testing.T) {
	g, err := New(WithModel(smallModel(5, 5, geometry.Diagonal)), WithFleet(Fleet{2, 2}))
	require.NoError(t, err)

	n := 0
	err = g.Each(context.Background(), func(board.Board) error {
		n++
		if n == 3 {
			return ErrStopped
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	boom := errors.New("boom")
	err = g.Each(context.Background(), func(board.Board) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCanonicalOnly(t *testing.T) {
	m := smallModel(5, 5, geometry.Diagonal)
	fleet := Fleet{3, 2}

	g, err := New(WithModel(m), WithFleet(fleet), WithCanonicalOnly())
	require.NoError(t, err)
	canon, err := g.Collect(context.Background())
	require.NoError(t, err)
	require.NoError(t, g.Validate(context.Background(), canon))

	sym, err := geometry.NewSymmetry(m.Grid)
	require.NoError(t, err)

	expanded := map[board.Board]struct{}{}
	var imgs []board.Board
	for _, b := range canon {
		imgs = sym.Images(imgs[:0], b)
		for _, img := range imgs {
			_, dup := expanded[img]
			require.False(t, dup, "orbits must be disjoint")
			expanded[img] = struct{}{}
		}
	}

	all := testutil.BruteForceBoards(m, fleet)
	assert.Len(t, expanded, len(all))
	for _, b := range all {
		assert.Contains(t, expanded, b)
	}
}

func TestCanonicalOnly_RequiresSquareGrid(t *testing.T) {
	_, err := New(WithModel(smallModel(6, 4, geometry.Diagonal)), WithFleet(Fleet{2}), WithCanonicalOnly())
	assert.ErrorIs(t, err, geometry.ErrNotSquare)
}

func TestNew_InvalidInput(t *testing.T) {
	_, err := New(WithFleet(Fleet{}))
	assert.Error(t, err)

	_, err = New(WithFleet(Fleet{3, 0}))
	assert.Error(t, err)

	_, err = New(WithModel(smallModel(10, 10, geometry.Diagonal)))
	assert.Error(t, err)
}

func TestUnplaceableFleet(t *testing.T) {
	g, err := New(WithModel(smallModel(3, 3, geometry.Diagonal)), WithFleet(Fleet{4}))
	require.NoError(t, err)

	n, err := g.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	boards, err := g.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestValidate_RejectsBadBoards(t *testing.T) {
	m := smallModel(5, 5, geometry.Diagonal)
	g, err := New(WithModel(m), WithFleet(Fleet{2, 2}))
	require.NoError(t, err)

	a, _ := m.Grid.CellsOf(0, geometry.Horizontal, 2)
	far, _ := m.Grid.CellsOf(22, geometry.Horizontal, 2)
	diag, _ := m.Grid.CellsOf(7, geometry.Horizontal, 2) // corner-touches a
	bent := a.With(5)

	tests := []struct {
		name   string
		boards []board.Board
		index  int
	}{
		{"touching", []board.Board{a.Or(diag)}, 0},
		{"too few cells", []board.Board{a}, 0},
		{"bent ship", []board.Board{bent.With(20)}, 0},
		{"unsorted", []board.Board{a.Or(far), a.Or(far)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(context.Background(), tt.boards)
			require.ErrorIs(t, err, ErrGenerationLogic)

			var gle *GenerationLogicError
			require.ErrorAs(t, err, &gle)
			assert.Equal(t, tt.index, gle.Index)
		})
	}

	require.NoError(t, g.Validate(context.Background(), []board.Board{a.Or(far)}))
}

func TestCancelledContext(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = g.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = g.Each(ctx, func(board.Board) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFleet(t *testing.T) {
	assert.Equal(t, 27, StandardFleet.Cells())
	assert.Equal(t, "4,4,4,3,3,3,3,3", StandardFleet.String())
	assert.Equal(t, []group{{length: 4, count: 3}, {length: 3, count: 5}}, StandardFleet.groups())

	f, err := ParseFleet("3, 4,3")
	require.NoError(t, err)
	assert.Equal(t, Fleet{3, 4, 3}, f)
	assert.Equal(t, []group{{length: 4, count: 1}, {length: 3, count: 2}}, f.groups())

	_, err = ParseFleet("3,x")
	assert.Error(t, err)
	_, err = ParseFleet("")
	assert.Error(t, err)
}

// expectedHeatmap is the per-cell ship count over all standard boards.
var expectedHeatmap = [board.Cells]uint64{
	91828984, 81901859, 117097056, 93138304, 90403381, 93138304, 117097056, 81901859, 91828984,
	81901859, 29572998, 54989301, 27344104, 37308200, 27344104, 54989301, 29572998, 81901859,
	117097056, 54989301, 105220336, 70069997, 89165356, 70069997, 105220336, 54989301, 117097056,
	93138304, 27344104, 70069997, 32555654, 56735290, 32555654, 70069997, 27344104, 93138304,
	90403381, 37308200, 89165356, 56735290, 83039340, 56735290, 89165356, 37308200, 90403381,
	93138304, 27344104, 70069997, 32555654, 56735290, 32555654, 70069997, 27344104, 93138304,
	117097056, 54989301, 105220336, 70069997, 89165356, 70069997, 105220336, 54989301, 117097056,
	81901859, 29572998, 54989301, 27344104, 37308200, 27344104, 54989301, 29572998, 81901859,
	91828984, 81901859, 117097056, 93138304, 90403381, 93138304, 117097056, 81901859, 91828984,
}

const standardBoards = 213_723_152

func requireFull(t *testing.T) {
	t.Helper()
	if os.Getenv("SALVO_FULL") == "" {
		t.Skip("set SALVO_FULL=1 to enumerate the full 9x9 board space")
	}
}

func TestStandardCount(t *testing.T) {
	requireFull(t)

	g, err := New()
	require.NoError(t, err)
	n, err := g.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(standardBoards), n)
}

func TestStandardHeatmap(t *testing.T) {
	requireFull(t)

	g, err := New()
	require.NoError(t, err)

	var (
		n    uint64
		heat [board.Cells]uint64
	)
	require.NoError(t, g.Each(context.Background(), func(b board.Board) error {
		n++
		for c := range b.Cells() {
			heat[c]++
		}
		return nil
	}))
	assert.Equal(t, uint64(standardBoards), n)
	assert.Equal(t, expectedHeatmap, heat)
}

func TestStandardCanonicalOrbits(t *testing.T) {
	requireFull(t)

	g, err := New(WithCanonicalOnly())
	require.NoError(t, err)
	sym, err := geometry.NewSymmetry(geometry.Standard)
	require.NoError(t, err)

	var total uint64
	var imgs []board.Board
	require.NoError(t, g.Each(context.Background(), func(b board.Board) error {
		imgs = sym.Images(imgs[:0], b)
		total += uint64(len(imgs))
		return nil
	}))
	assert.Equal(t, uint64(standardBoards), total)
}

func BenchmarkCountSmall(b *testing.B) {
	g, err := New(WithModel(smallModel(7, 7, geometry.Diagonal)), WithFleet(Fleet{3, 3, 2, 2}))
	require.NoError(b, err)

	b.ResetTimer()
	for range b.N {
		_, _ = g.Count(context.Background())
	}
}
