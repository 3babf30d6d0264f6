package dataset

import (
	"errors"
	"io"

	"github.com/hupe1980/salvo/internal/board"
)

type readerOptions struct {
	format Format
}

// ReaderOption configures a Decoder.
type ReaderOption func(*readerOptions)

// WithReadFormat selects delta or raw records. Defaults to FormatDelta.
func WithReadFormat(f Format) ReaderOption {
	return func(o *readerOptions) { o.format = f }
}

// Decoder reads boards from a dataset stream using a fixed-size buffer.
// It is not safe for concurrent use.
type Decoder struct {
	src         io.Reader
	release     func()
	compression Compression
	format      Format

	buf  []byte
	pos  int
	end  int
	eof  bool
	off  int64
	prev board.Board
	n    uint64
	err  error
}

// NewDecoder detects the compression of r and returns a Decoder over it.
// Close releases decompressor state; it does not close r.
func NewDecoder(r io.Reader, optFns ...ReaderOption) (*Decoder, error) {
	var o readerOptions
	for _, fn := range optFns {
		fn(&o)
	}

	src, c, release, err := decompressor(r)
	if err != nil {
		var srcErr *sourceError
		if errors.As(err, &srcErr) {
			return nil, srcErr.err
		}
		return nil, &CorruptError{Cause: err}
	}
	return &Decoder{
		src:         src,
		release:     release,
		compression: c,
		format:      o.format,
		buf:         make([]byte, BufferSize),
	}, nil
}

// Compression reports the detected frame.
func (d *Decoder) Compression() Compression { return d.compression }

// Count returns the number of boards decoded so far.
func (d *Decoder) Count() uint64 { return d.n }

// Next returns the next absolute board. It returns io.EOF after the last
// complete record, or an error matching ErrStreamCorrupt when the stream
// cannot be decompressed, ends in a partial record, or holds a board with
// cells outside the addressable range. Read errors of the underlying source
// are returned unchanged.
func (d *Decoder) Next() (board.Board, error) {
	if d.err != nil {
		return board.Empty, d.err
	}

	if d.end-d.pos < RecordSize {
		if err := d.fill(); err != nil {
			d.err = err
			return board.Empty, err
		}
	}

	rec := board.FromBytes(d.buf[d.pos : d.pos+RecordSize])
	if d.format == FormatDelta && d.n > 0 {
		rec = d.prev.Xor(rec)
	}
	if !rec.AndNot(board.Full).IsZero() {
		d.err = &CorruptError{Offset: d.off, Cause: ErrCellRange}
		return board.Empty, d.err
	}
	d.pos += RecordSize
	d.off += RecordSize
	d.prev = rec
	d.n++
	return rec, nil
}

// fill refills the buffer until it holds at least one record.
func (d *Decoder) fill() error {
	rest := copy(d.buf, d.buf[d.pos:d.end])
	d.pos, d.end = 0, rest

	for d.end < RecordSize {
		if d.eof {
			if d.end == 0 {
				return io.EOF
			}
			return &CorruptError{Offset: d.off + int64(d.end), Cause: io.ErrUnexpectedEOF}
		}

		n, err := d.src.Read(d.buf[d.end:])
		d.end += n
		if err == io.EOF {
			d.eof = true
			continue
		}
		if err != nil {
			var srcErr *sourceError
			if errors.As(err, &srcErr) {
				return srcErr.err
			}
			// Anything else comes from the decompressor.
			return &CorruptError{Offset: d.off + int64(d.end), Cause: err}
		}
	}
	return nil
}

// Close releases decompressor resources.
func (d *Decoder) Close() {
	if d.release != nil {
		d.release()
		d.release = nil
	}
}

// Decode reads every board from r.
func Decode(r io.Reader, optFns ...ReaderOption) ([]board.Board, error) {
	dec, err := NewDecoder(r, optFns...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []board.Board
	for {
		b, err := dec.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
}

// sourceError marks a read failure of the underlying source so that it is
// not mistaken for a corrupt frame.
type sourceError struct{ err error }

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

// sourceReader tags errors of r as source errors.
type sourceReader struct{ r io.Reader }

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = &sourceError{err: err}
	}
	return n, err
}
