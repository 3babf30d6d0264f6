package salvo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/salvo/internal/dataset"
	"github.com/hupe1980/salvo/internal/geometry"
	"github.com/hupe1980/salvo/internal/query"
	"github.com/hupe1980/salvo/testutil"
)

func writeDataset(t *testing.T, boards []Mask, opts ...dataset.WriterOption) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := dataset.EncodeBoards(&buf, boards, opts...)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "boards.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestFilterAndCountPath(t *testing.T) {
	boards := smallBoards(t)
	path := writeDataset(t, boards, dataset.WithCompression(dataset.CompressionZstd), dataset.WithLevel(3))

	hit, miss := testutil.NewRNG(3).Constraint(boards, 2, 2)
	want, heat := testutil.ExactFilter(boards, hit, miss)

	hitLo, hitHi := hit.Halves()
	missLo, missHi := miss.Halves()
	out := make([]uint32, Cells+4)
	for i := range out {
		out[i] = 99
	}

	n, status := FilterAndCountPath(path, hitLo, hitHi, missLo, missHi, out)
	require.Equal(t, StatusOK, status)
	assert.Equal(t, want, n)
	assert.Equal(t, heat[:], out[:Cells])
	// Counters past Cells are left alone.
	assert.Equal(t, []uint32{99, 99, 99, 99}, out[Cells:])
}

func TestFilterAndCountPath_SidecarManifest(t *testing.T) {
	boards := smallBoards(t)
	path := writeDataset(t, boards, dataset.WithCompression(dataset.CompressionNone), dataset.WithFormat(dataset.FormatRaw))

	data, err := dataset.MarshalManifest(nil, &Manifest{Format: FormatRaw, Compression: CompressionNone})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dataset.ManifestName(path), data, 0o600))

	lo, hi := CellMask(boards[0].First()).Halves()
	want, _ := testutil.ExactFilter(boards, CellMask(boards[0].First()), Mask{})

	out := make([]uint32, Cells)
	n, status := FilterAndCountPath(path, lo, hi, 0, 0, out)
	require.Equal(t, StatusOK, status)
	assert.Equal(t, want, n)
}

func TestFilterAndCountPath_InvalidSidecarManifest(t *testing.T) {
	boards := smallBoards(t)
	hit := CellMask(boards[0].First())
	lo, hi := hit.Halves()

	for name, manifest := range map[string]string{
		"future version":    `{"version":2,"format":"raw"}`,
		"missing version":   `{"format":"raw"}`,
		"malformed":         `{"version":1,"format":`,
		"unknown format":    `{"version":1,"format":"columnar"}`,
		"canonical 5x4":     `{"version":1,"format":"raw","canonical_only":true,"width":5,"height":4}`,
		"canonical no grid": `{"version":1,"format":"raw","canonical_only":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := writeDataset(t, boards, dataset.WithCompression(dataset.CompressionNone), dataset.WithFormat(dataset.FormatRaw))
			require.NoError(t, os.WriteFile(dataset.ManifestName(path), []byte(manifest), 0o600))

			out := make([]uint32, Cells)
			out[0] = 7
			n, status := FilterAndCountPath(path, lo, hi, 0, 0, out)
			assert.Equal(t, StatusInvalidManifest, status)
			assert.Zero(t, n)
			assert.Equal(t, make([]uint32, Cells), out)
		})
	}

	t.Run("unreadable", func(t *testing.T) {
		path := writeDataset(t, boards, dataset.WithCompression(dataset.CompressionNone))
		// A directory where the manifest should be cannot be read as a file.
		require.NoError(t, os.Mkdir(dataset.ManifestName(path), 0o700))

		n, status := FilterAndCountPath(path, lo, hi, 0, 0, make([]uint32, Cells))
		assert.Equal(t, StatusSourceUnavailable, status)
		assert.Zero(t, n)
	})

	t.Run("valid manifest", func(t *testing.T) {
		path := writeDataset(t, boards, dataset.WithCompression(dataset.CompressionNone), dataset.WithFormat(dataset.FormatRaw))
		require.NoError(t, os.WriteFile(dataset.ManifestName(path), []byte(`{"version":1,"format":"raw"}`), 0o600))

		want, heat := testutil.ExactFilter(boards, hit, Mask{})
		out := make([]uint32, Cells)
		n, status := FilterAndCountPath(path, lo, hi, 0, 0, out)
		require.Equal(t, StatusOK, status)
		assert.Equal(t, want, n)
		assert.Equal(t, heat[:], out)
	})
}

func TestFilterAndCountPath_Failures(t *testing.T) {
	boards := smallBoards(t)
	dirty := func() []uint32 {
		out := make([]uint32, Cells)
		for i := range out {
			out[i] = 7
		}
		return out
	}

	t.Run("short buffer", func(t *testing.T) {
		n, status := FilterAndCountPath("unused", 0, 0, 0, 0, make([]uint32, Cells-1))
		assert.Equal(t, StatusInvalidArgument, status)
		assert.Zero(t, n)
	})

	t.Run("missing file", func(t *testing.T) {
		out := dirty()
		n, status := FilterAndCountPath(filepath.Join(t.TempDir(), "nope.bin"), 0, 0, 0, 0, out)
		assert.Equal(t, StatusSourceUnavailable, status)
		assert.Zero(t, n)
		assert.Equal(t, make([]uint32, Cells), out)
	})

	t.Run("truncated zstd", func(t *testing.T) {
		path := writeDataset(t, boards, dataset.WithCompression(dataset.CompressionZstd))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o600))

		out := dirty()
		n, status := FilterAndCountPath(path, 0, 0, 0, 0, out)
		assert.Equal(t, StatusStreamCorrupt, status)
		assert.Zero(t, n)
		assert.Equal(t, make([]uint32, Cells), out)
	})

	t.Run("partial record", func(t *testing.T) {
		path := writeDataset(t, boards[:3], dataset.WithCompression(dataset.CompressionNone))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0o600))

		n, status := FilterAndCountPath(path, 0, 0, 0, 0, dirty())
		assert.Equal(t, StatusStreamCorrupt, status)
		assert.Zero(t, n)
	})
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "stream corrupt", StatusStreamCorrupt.String())
	assert.Equal(t, "unknown status", Status(42).String())

	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusStreamCorrupt, StatusOf(translateError(dataset.ErrStreamCorrupt)))
	assert.Equal(t, StatusInvalidArgument, StatusOf(ErrInvalidArgument))
	assert.Equal(t, StatusSourceUnavailable, StatusOf(ErrSourceUnavailable))
	assert.Equal(t, StatusSourceUnavailable, StatusOf(&query.SourceError{Err: os.ErrPermission}))
	assert.Equal(t, StatusInvalidManifest, StatusOf(translateError(dataset.ErrInvalidManifest)))
	assert.Equal(t, StatusCancelled, StatusOf(context.DeadlineExceeded))
	assert.Equal(t, StatusInternal, StatusOf(geometry.ErrNotSquare))
	assert.Equal(t, StatusInternal, StatusOf(errors.New("boom")))
	assert.Equal(t, "invalid manifest", StatusInvalidManifest.String())
	assert.Equal(t, "internal error", StatusInternal.String())
}
