package salvo

import (
	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/geometry"
	"github.com/hupe1980/salvo/internal/query"
)

// Cells is the number of addressable cells.
const Cells = board.Cells

// Mask is a set of cells, bit i for cell i = row*9+col.
type Mask = board.Board

// Result is the match count and per-cell heatmap of a query.
type Result = query.Result

// Grid is a rectangular board.
type Grid = geometry.Grid

// Adjacency selects which neighbouring cells count as touching.
type Adjacency = geometry.Adjacency

// Manifest is the sidecar description of a dataset.
type Manifest = dataset.Manifest

// Summary describes the decoded content of a dataset.
type Summary = dataset.Summary

// Compression identifies the frame around a dataset.
type Compression = dataset.Compression

// Format selects delta or raw records.
type Format = dataset.Format

const (
	Diagonal   = geometry.Diagonal
	Orthogonal = geometry.Orthogonal

	CompressionNone = dataset.CompressionNone
	CompressionZstd = dataset.CompressionZstd
	CompressionLZ4  = dataset.CompressionLZ4

	FormatDelta = dataset.FormatDelta
	FormatRaw   = dataset.FormatRaw
)

// StandardGrid is the 9x9 board.
var StandardGrid = geometry.Standard

// StandardFleet is three ships of length 4 and five of length 3.
var StandardFleet = []int{4, 4, 4, 3, 3, 3, 3, 3}

// MaskFromHalves builds a mask from its low and high 64-bit halves.
func MaskFromHalves(lo, hi uint64) Mask {
	return board.FromHalves(lo, hi)
}

// CellMask returns a mask with the given cells set. Cells outside
// [0, Cells) are ignored.
func CellMask(cells ...int) Mask {
	var m Mask
	for _, c := range cells {
		if c >= 0 && c < Cells {
			m = m.With(c)
		}
	}
	return m
}

// ParseMask parses a hexadecimal mask.
func ParseMask(s string) (Mask, error) {
	return board.ParseHex(s)
}
