package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/salvo/codec"
	"github.com/hupe1980/salvo/internal/board"
	"github.com/hupe1980/salvo/internal/geometry"
)

// ManifestSuffix is appended to a dataset name to form its manifest name.
const ManifestSuffix = ".manifest.json"

// ManifestVersion is the current manifest schema version.
const ManifestVersion = 1

var (
	// ErrManifestMismatch indicates that a dataset does not match its manifest.
	ErrManifestMismatch = errors.New("dataset: manifest mismatch")

	// ErrInvalidManifest indicates a manifest that exists but cannot be used.
	ErrInvalidManifest = errors.New("dataset: invalid manifest")
)

// Manifest is the sidecar description of a dataset file. It is stored next
// to the dataset, never inside it.
type Manifest struct {
	Version     int         `json:"version"`
	Codec       string      `json:"codec"`
	Count       uint64      `json:"count"`
	Format      Format      `json:"format"`
	Compression Compression `json:"compression"`
	Level       int         `json:"level,omitempty"`
	// Digest is the content digest of the decoded boards.
	Digest string `json:"digest"`
	// CRC32C and Size describe the stored file bytes.
	CRC32C       uint32 `json:"crc32c"`
	Size         int64  `json:"size"`
	Union        string `json:"union"`
	Intersection string `json:"intersection"`

	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Adjacency     string `json:"adjacency"`
	Fleet         []int  `json:"fleet"`
	CanonicalOnly bool   `json:"canonical_only,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ManifestName returns the manifest name of a dataset.
func ManifestName(name string) string {
	return name + ManifestSuffix
}

// SetStats copies count, union and intersection into m.
func (m *Manifest) SetStats(s Stats) {
	m.Count = s.Count
	m.Union = s.Union.Hex()
	m.Intersection = s.Intersection.Hex()
}

// MarshalManifest encodes m with c (codec.Default when nil) and records the
// codec name in the manifest.
func MarshalManifest(c codec.Codec, m *Manifest) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	m.Codec = c.Name()
	if m.Version == 0 {
		m.Version = ManifestVersion
	}
	return codec.MarshalIndent(c, m)
}

// UnmarshalManifest decodes and validates a manifest. Manifests are JSON
// regardless of codec, so the default codec reads all of them. Every error
// matches ErrInvalidManifest.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := codec.Default.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields a reader depends on: the schema version, and
// for canonical-only datasets a square grid to expand symmetries on.
func (m *Manifest) Validate() error {
	if m.Version < 1 || m.Version > ManifestVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidManifest, m.Version)
	}
	if m.CanonicalOnly {
		g := geometry.Grid{Width: m.Width, Height: m.Height}
		if !g.Valid() {
			return fmt.Errorf("%w: grid %dx%d", ErrInvalidManifest, m.Width, m.Height)
		}
		if !g.Square() {
			return fmt.Errorf("%w: %w", ErrInvalidManifest, geometry.ErrNotSquare)
		}
	}
	return nil
}

// MismatchError lists the manifest fields that disagree with a dataset.
type MismatchError struct {
	Fields []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("dataset: manifest mismatch: %v", e.Fields)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrManifestMismatch
}

// Compare checks a content summary against the manifest.
func (m *Manifest) Compare(s Summary) error {
	var fields []string
	if m.Count != s.Count {
		fields = append(fields, fmt.Sprintf("count: manifest %d, dataset %d", m.Count, s.Count))
	}
	if m.Digest != s.Digest {
		fields = append(fields, "digest")
	}
	if m.Compression != s.Compression {
		fields = append(fields, fmt.Sprintf("compression: manifest %s, dataset %s", m.Compression, s.Compression))
	}
	if m.Union != "" && m.Union != s.Union.Hex() {
		fields = append(fields, "union")
	}
	if m.Intersection != "" && m.Intersection != s.Intersection.Hex() {
		fields = append(fields, "intersection")
	}
	if len(fields) > 0 {
		return &MismatchError{Fields: fields}
	}
	return nil
}

// UnionBoard parses the stored union mask.
func (m *Manifest) UnionBoard() (board.Board, error) {
	return board.ParseHex(m.Union)
}
