package dataset

import (
	"context"
	"io"

	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/hash"
)

// Summary describes the content of a decoded dataset.
type Summary struct {
	Stats
	Compression Compression
	// Digest is the SHA-256 of the absolute little-endian records, hex encoded.
	// It does not depend on the record format or compression.
	Digest string
	// Ascending reports whether boards are strictly increasing.
	Ascending bool
}

// Digester accumulates a Summary from absolute boards.
type Digester struct {
	d         *hash.ContentDigest
	stats     Stats
	prev      board.Board
	ascending bool
	rec       [RecordSize]byte
}

// NewDigester returns an empty Digester.
func NewDigester() *Digester {
	return &Digester{d: hash.NewContentDigest(), ascending: true}
}

// Add folds b into the summary.
func (g *Digester) Add(b board.Board) {
	if g.stats.Count > 0 && g.prev.Cmp(b) >= 0 {
		g.ascending = false
	}
	b.PutBytes(g.rec[:])
	_, _ = g.d.Write(g.rec[:])
	g.stats.Add(b)
	g.prev = b
}

// Summary returns the summary of the boards added so far.
func (g *Digester) Summary() Summary {
	return Summary{
		Stats:     g.stats,
		Digest:    g.d.Hex(),
		Ascending: g.ascending,
	}
}

// Summarize decodes r and summarizes its content.
func Summarize(ctx context.Context, r io.Reader, optFns ...ReaderOption) (Summary, error) {
	dec, err := NewDecoder(r, optFns...)
	if err != nil {
		return Summary{}, err
	}
	defer dec.Close()

	g := NewDigester()
	for {
		b, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Summary{}, err
		}
		g.Add(b)
		if dec.Count()%(1<<16) == 0 {
			if err := ctx.Err(); err != nil {
				return Summary{}, err
			}
		}
	}

	s := g.Summary()
	s.Compression = dec.Compression()
	return s, nil
}
