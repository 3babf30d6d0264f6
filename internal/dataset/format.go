// Package dataset reads and writes the board dataset file.
//
// A dataset is a stream of 16-byte little-endian records with no header,
// index or footer. In the delta format the first record is an absolute board
// and every following record is the XOR of a board with its predecessor; in
// the raw format every record is absolute. The whole record stream is
// optionally wrapped in a single zstd or lz4 frame, which readers detect from
// the leading magic bytes.
//
// Boards are written in ascending numeric order, so consecutive boards share
// most bits and the XOR deltas are sparse and compress well.
package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/salvo/internal/board"
)

// RecordSize is the width of one record in bytes.
const RecordSize = board.Size

// BufferSize is the read and write buffer used by encoders and decoders.
const BufferSize = 128 << 10

// Format selects how records relate to each other.
type Format uint8

const (
	// FormatDelta stores the first board absolute and XOR deltas after it.
	FormatDelta Format = iota
	// FormatRaw stores every board absolute.
	FormatRaw
)

func (f Format) String() string {
	switch f {
	case FormatDelta:
		return "delta"
	case FormatRaw:
		return "raw"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// ParseFormat parses "delta" or "raw".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "delta", "":
		return FormatDelta, nil
	case "raw":
		return FormatRaw, nil
	default:
		return FormatDelta, fmt.Errorf("dataset: unknown format %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

var (
	// ErrStreamCorrupt indicates a decompressor failure or a trailing
	// partial record.
	ErrStreamCorrupt = errors.New("dataset: stream corrupt")

	// ErrEncodeIntegrity indicates that decoding an encoded stream did not
	// reproduce the input boards.
	ErrEncodeIntegrity = errors.New("dataset: encode integrity check failed")

	// ErrCellRange is the cause of a CorruptError for a record with bits
	// set beyond the last addressable cell.
	ErrCellRange = errors.New("dataset: board has cells out of range")

	// ErrClosed is returned when writing to a closed Encoder.
	ErrClosed = errors.New("dataset: encoder closed")
)

// CorruptError describes where a stream stopped being decodable.
type CorruptError struct {
	// Offset is the number of decompressed bytes consumed before the failure.
	Offset int64
	Cause  error
}

func (e *CorruptError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("dataset: stream corrupt at offset %d", e.Offset)
	}
	return fmt.Sprintf("dataset: stream corrupt at offset %d: %v", e.Offset, e.Cause)
}

func (e *CorruptError) Unwrap() error { return e.Cause }

func (e *CorruptError) Is(target error) bool {
	return target == ErrStreamCorrupt
}

// EncodeIntegrityError reports the first board that did not survive a round trip.
type EncodeIntegrityError struct {
	Index int
	Want  board.Board
	Got   board.Board
	// Short is set when the decoded stream ended early or ran long.
	Short bool
}

func (e *EncodeIntegrityError) Error() string {
	if e.Short {
		return fmt.Sprintf("dataset: encode integrity check failed: decoded %d boards", e.Index)
	}
	return fmt.Sprintf("dataset: encode integrity check failed at board %d: got %s, want %s", e.Index, e.Got, e.Want)
}

func (e *EncodeIntegrityError) Is(target error) bool {
	return target == ErrEncodeIntegrity
}
