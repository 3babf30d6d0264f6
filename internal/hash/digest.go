package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// ContentDigest is a running SHA-256 over a sequence of records.
type ContentDigest struct {
	h hash.Hash
}

// NewContentDigest returns an empty digest.
func NewContentDigest() *ContentDigest {
	return &ContentDigest{h: sha256.New()}
}

// Write adds p to the digest. It never fails.
func (d *ContentDigest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the current digest.
func (d *ContentDigest) Sum() [sha256.Size]byte {
	var out [sha256.Size]byte
	d.h.Sum(out[:0])
	return out
}

// Hex returns the current digest as lowercase hex.
func (d *ContentDigest) Hex() string {
	sum := d.Sum()
	return hex.EncodeToString(sum[:])
}
