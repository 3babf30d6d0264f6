package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the frame wrapped around the record stream.
type Compression uint8

const (
	// CompressionNone stores records as is.
	CompressionNone Compression = iota
	// CompressionZstd wraps the stream in one zstd frame (the default).
	CompressionZstd
	// CompressionLZ4 wraps the stream in one lz4 frame.
	CompressionLZ4
)

// DefaultZstdLevel is the zstd level used when none is configured.
const DefaultZstdLevel = 22

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "zstd", "":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "none", "raw":
		return CompressionNone, nil
	default:
		return CompressionZstd, fmt.Errorf("dataset: unknown compression %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Detect peeks at the first bytes of br and reports the compression in use.
// Streams too short to hold a magic number are uncompressed.
func Detect(br *bufio.Reader) Compression {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.Equal(head, zstdMagic):
		return CompressionZstd
	case bytes.Equal(head, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// decompressor wraps r according to its detected compression.
// The returned close function releases decoder resources; it never closes r.
func decompressor(r io.Reader) (io.Reader, Compression, func(), error) {
	br := bufio.NewReaderSize(sourceReader{r}, BufferSize)
	c := Detect(br)

	switch c {
	case CompressionZstd:
		// Single-threaded, low-memory decoding keeps the reader's footprint
		// bounded by the frame window regardless of file size.
		dec, err := zstd.NewReader(br,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			return nil, c, nil, err
		}
		return dec, c, dec.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(br), c, func() {}, nil
	default:
		return br, c, func() {}, nil
	}
}

// nopFlushCloser adapts an uncompressed writer.
type nopFlushCloser struct{ io.Writer }

func (nopFlushCloser) Close() error { return nil }

// compressor wraps w in the configured frame writer. Closing the returned
// writer finishes the frame but leaves w open.
func compressor(w io.Writer, c Compression, level int) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopFlushCloser{w}, nil
	case CompressionZstd:
		if level <= 0 {
			level = DefaultZstdLevel
		}
		zw, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, err
		}
		return zw, nil
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		opts := []lz4.Option{lz4.ChecksumOption(true)}
		if level > 0 {
			opts = append(opts, lz4.CompressionLevelOption(lz4Level(level)))
		}
		if err := zw.Apply(opts...); err != nil {
			return nil, err
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("dataset: unsupported %s", c)
	}
}

// lz4Level maps 1..9 onto the lz4 high-compression levels.
func lz4Level(level int) lz4.CompressionLevel {
	switch {
	case level <= 1:
		return lz4.Level1
	case level == 2:
		return lz4.Level2
	case level == 3:
		return lz4.Level3
	case level == 4:
		return lz4.Level4
	case level == 5:
		return lz4.Level5
	case level == 6:
		return lz4.Level6
	case level == 7:
		return lz4.Level7
	case level == 8:
		return lz4.Level8
	default:
		return lz4.Level9
	}
}
