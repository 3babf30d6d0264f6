package dataset

import (
	"bufio"
	"bytes"
	"io"
	"iter"

	"github.com/hupe1980/salvo/internal/board"
)

// Stats summarizes the boards written to or read from a dataset.
type Stats struct {
	Count uint64
	// Union has every cell occupied by at least one board.
	Union board.Board
	// Intersection has every cell occupied by all boards; empty when Count is 0.
	Intersection board.Board
}

// Add folds b into the stats.
func (s *Stats) Add(b board.Board) {
	if s.Count == 0 {
		s.Intersection = b
	} else {
		s.Intersection = s.Intersection.And(b)
	}
	s.Union = s.Union.Or(b)
	s.Count++
}

type writerOptions struct {
	compression Compression
	level       int
	format      Format
}

// WriterOption configures an Encoder.
type WriterOption func(*writerOptions)

// WithCompression selects the frame. Defaults to CompressionZstd.
func WithCompression(c Compression) WriterOption {
	return func(o *writerOptions) { o.compression = c }
}

// WithLevel sets the compressor level (zstd 1-22, lz4 1-9). Zero uses the default.
func WithLevel(level int) WriterOption {
	return func(o *writerOptions) { o.level = level }
}

// WithFormat selects delta or raw records. Defaults to FormatDelta.
func WithFormat(f Format) WriterOption {
	return func(o *writerOptions) { o.format = f }
}

// Encoder writes boards as dataset records.
// It is not safe for concurrent use.
type Encoder struct {
	cw     io.WriteCloser
	bw     *bufio.Writer
	format Format
	prev   board.Board
	rec    [RecordSize]byte
	stats  Stats
	closed bool
}

// NewEncoder returns an Encoder writing to w. Close must be called to
// finish the frame; it does not close w.
func NewEncoder(w io.Writer, optFns ...WriterOption) (*Encoder, error) {
	o := writerOptions{compression: CompressionZstd}
	for _, fn := range optFns {
		fn(&o)
	}

	cw, err := compressor(w, o.compression, o.level)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		cw:     cw,
		bw:     bufio.NewWriterSize(cw, BufferSize),
		format: o.format,
	}, nil
}

// Write appends one board.
func (e *Encoder) Write(b board.Board) error {
	if e.closed {
		return ErrClosed
	}

	rec := b
	if e.format == FormatDelta && e.stats.Count > 0 {
		rec = e.prev.Xor(b)
	}
	rec.PutBytes(e.rec[:])
	if _, err := e.bw.Write(e.rec[:]); err != nil {
		return err
	}

	e.prev = b
	e.stats.Add(b)
	return nil
}

// Stats returns the statistics of the boards written so far.
func (e *Encoder) Stats() Stats { return e.stats }

// Close flushes buffered records and finishes the compressed frame.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.bw.Flush(); err != nil {
		_ = e.cw.Close()
		return err
	}
	return e.cw.Close()
}

// Encode writes every board of seq to w and finishes the frame.
func Encode(w io.Writer, seq iter.Seq[board.Board], optFns ...WriterOption) (Stats, error) {
	enc, err := NewEncoder(w, optFns...)
	if err != nil {
		return Stats{}, err
	}
	for b := range seq {
		if err := enc.Write(b); err != nil {
			_ = enc.Close()
			return enc.Stats(), err
		}
	}
	if err := enc.Close(); err != nil {
		return enc.Stats(), err
	}
	return enc.Stats(), nil
}

// EncodeBoards is Encode over a slice.
func EncodeBoards(w io.Writer, boards []board.Board, optFns ...WriterOption) (Stats, error) {
	return Encode(w, func(yield func(board.Board) bool) {
		for _, b := range boards {
			if !yield(b) {
				return
			}
		}
	}, optFns...)
}

// RoundTrip encodes boards in memory, decodes the result and compares it
// with the input. It returns the encoded bytes on success.
func RoundTrip(boards []board.Board, optFns ...WriterOption) ([]byte, Stats, error) {
	var buf bytes.Buffer
	stats, err := EncodeBoards(&buf, boards, optFns...)
	if err != nil {
		return nil, stats, err
	}

	o := writerOptions{}
	for _, fn := range optFns {
		fn(&o)
	}
	if err := Check(bytes.NewReader(buf.Bytes()), boards, WithReadFormat(o.format)); err != nil {
		return nil, stats, err
	}
	return buf.Bytes(), stats, nil
}

// Check decodes r and compares it board by board with want.
// Mismatches are reported as *EncodeIntegrityError; decoding failures are
// returned unchanged.
func Check(r io.Reader, want []board.Board, optFns ...ReaderOption) error {
	dec, err := NewDecoder(r, optFns...)
	if err != nil {
		return err
	}
	defer dec.Close()

	for i := 0; ; i++ {
		got, err := dec.Next()
		if err == io.EOF {
			if i != len(want) {
				return &EncodeIntegrityError{Index: i, Short: true}
			}
			return nil
		}
		if err != nil {
			return err
		}
		if i >= len(want) {
			return &EncodeIntegrityError{Index: i + 1, Short: true}
		}
		if !got.Equal(want[i]) {
			return &EncodeIntegrityError{Index: i, Want: want[i], Got: got}
		}
	}
}
