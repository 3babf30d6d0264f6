// Package board defines the occupancy bitmask of a complete fleet layout.
//
// A Board is a 128-bit value where bit i is set when a ship segment occupies
// cell i. Only the low Cells bits are addressable; the remaining bits are
// always zero for boards produced by this module.
package board

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"lukechampine.com/uint128"
)

const (
	// Cells is the number of addressable cells (9x9).
	Cells = 81

	// Size is the encoded width of a board in bytes.
	Size = 16
)

// ErrInvalidHex is returned by ParseHex for malformed input.
var ErrInvalidHex = errors.New("board: invalid hex mask")

// Board is an immutable occupancy bitmask.
type Board uint128.Uint128

var (
	// Empty has no cells set.
	Empty = Board{}

	// Full has every addressable cell set.
	Full = Board{Lo: ^uint64(0), Hi: 1<<(Cells-64) - 1}
)

// FromHalves builds a board from its low and high 64-bit halves.
func FromHalves(lo, hi uint64) Board {
	return Board(uint128.New(lo, hi))
}

// Bit returns a board with only cell i set.
func Bit(i int) Board {
	return Board(uint128.From64(1).Lsh(uint(i)))
}

// FromBytes decodes a 16-byte little-endian board.
func FromBytes(b []byte) Board {
	return Board(uint128.FromBytes(b))
}

// PutBytes writes the board as 16 little-endian bytes into b.
func (b Board) PutBytes(dst []byte) {
	uint128.Uint128(b).PutBytes(dst)
}

// Halves returns the low and high 64-bit halves.
func (b Board) Halves() (lo, hi uint64) {
	return b.Lo, b.Hi
}

// Has reports whether cell i is set.
func (b Board) Has(i int) bool {
	if i < 64 {
		return b.Lo>>uint(i)&1 == 1
	}
	return b.Hi>>uint(i-64)&1 == 1
}

// With returns a copy of b with cell i set.
func (b Board) With(i int) Board {
	return b.Or(Bit(i))
}

func (b Board) And(o Board) Board {
	return Board(uint128.Uint128(b).And(uint128.Uint128(o)))
}

func (b Board) Or(o Board) Board {
	return Board(uint128.Uint128(b).Or(uint128.Uint128(o)))
}

func (b Board) Xor(o Board) Board {
	return Board(uint128.Uint128(b).Xor(uint128.Uint128(o)))
}

// AndNot clears the cells of o from b.
func (b Board) AndNot(o Board) Board {
	return Board{Lo: b.Lo &^ o.Lo, Hi: b.Hi &^ o.Hi}
}

// Masked drops bits outside the addressable range.
func (b Board) Masked() Board {
	return b.And(Full)
}

// Intersects reports whether b and o share at least one cell.
func (b Board) Intersects(o Board) bool {
	return b.Lo&o.Lo != 0 || b.Hi&o.Hi != 0
}

// Contains reports whether every cell of o is set in b.
func (b Board) Contains(o Board) bool {
	return b.Lo&o.Lo == o.Lo && b.Hi&o.Hi == o.Hi
}

func (b Board) IsZero() bool {
	return uint128.Uint128(b).IsZero()
}

func (b Board) Equal(o Board) bool {
	return uint128.Uint128(b).Equals(uint128.Uint128(o))
}

// Cmp compares b and o numerically and returns -1, 0 or +1.
func (b Board) Cmp(o Board) int {
	return uint128.Uint128(b).Cmp(uint128.Uint128(o))
}

// Count returns the number of set cells.
func (b Board) Count() int {
	return uint128.Uint128(b).OnesCount()
}

// First returns the lowest set cell, or -1 for an empty board.
func (b Board) First() int {
	if b.IsZero() {
		return -1
	}
	return uint128.Uint128(b).TrailingZeros()
}

// Cells iterates the set cells in ascending order.
func (b Board) Cells() iter.Seq[int] {
	return func(yield func(int) bool) {
		for w := b.Lo; w != 0; w &= w - 1 {
			if !yield(bits.TrailingZeros64(w)) {
				return
			}
		}
		for w := b.Hi; w != 0; w &= w - 1 {
			if !yield(64 + bits.TrailingZeros64(w)) {
				return
			}
		}
	}
}

// AppendCells appends the set cells in ascending order to dst.
func (b Board) AppendCells(dst []int) []int {
	for c := range b.Cells() {
		dst = append(dst, c)
	}
	return dst
}

// CellSet returns the set cells as a roaring bitmap.
func (b Board) CellSet() *roaring.Bitmap {
	rb := roaring.New()
	for c := range b.Cells() {
		rb.Add(uint32(c))
	}
	return rb
}

// FromCellSet builds a board from a bitmap of cell indexes.
// Indexes outside the addressable range are ignored.
func FromCellSet(rb *roaring.Bitmap) Board {
	var b Board
	it := rb.Iterator()
	for it.HasNext() {
		c := int(it.Next())
		if c < Cells {
			b = b.With(c)
		}
	}
	return b
}

// Hex formats the board as a 0x-prefixed hexadecimal number.
func (b Board) Hex() string {
	if b.Hi == 0 {
		return "0x" + strconv.FormatUint(b.Lo, 16)
	}
	return fmt.Sprintf("0x%x%016x", b.Hi, b.Lo)
}

func (b Board) String() string {
	return b.Hex()
}

// ParseHex parses a hexadecimal mask with an optional 0x prefix.
func ParseHex(s string) (Board, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" || len(s) > 32 {
		return Empty, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	var lo, hi uint64
	var err error
	if len(s) > 16 {
		hi, err = strconv.ParseUint(s[:len(s)-16], 16, 64)
		if err != nil {
			return Empty, fmt.Errorf("%w: %v", ErrInvalidHex, err)
		}
		s = s[len(s)-16:]
	}
	lo, err = strconv.ParseUint(s, 16, 64)
	if err != nil {
		return Empty, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return FromHalves(lo, hi), nil
}

// Render draws the board as a width x height grid of '#' (ship) and '.' (water).
func (b Board) Render(width, height int) string {
	var sb strings.Builder
	sb.Grow((width*2 + 1) * height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if b.Has(row*width + col) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
