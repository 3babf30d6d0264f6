package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boards.bin")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestMapping(t *testing.T) {
	content := []byte("0123456789abcdef")
	m, err := Open(writeTemp(t, content))
	require.NoError(t, err)

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
	assert.False(t, m.Closed())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
	assert.Nil(t, m.Bytes())
	// Size describes the file, not the view.
	assert.Equal(t, len(content), m.Size())
}

func TestMapping_EmptyFile(t *testing.T) {
	m, err := Open(writeTemp(t, nil))
	require.NoError(t, err)

	assert.Zero(t, m.Size())
	assert.Nil(t, m.Bytes())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}

func TestMapping_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader(t *testing.T) {
	page := os.Getpagesize()
	content := make([]byte, 3*page+123)
	for i := range content {
		content[i] = byte(i * 7)
	}

	for _, window := range []int{0, page, DefaultReleaseWindow} {
		m, err := Open(writeTemp(t, content))
		require.NoError(t, err)

		r := m.NewReader(window)
		var got []byte
		buf := make([]byte, 1000)
		for {
			n, err := r.Read(buf)
			got = append(got, buf[:n]...)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}
		assert.Equal(t, content, got, "window %d", window)
		assert.Equal(t, len(content), r.Offset())
		require.NoError(t, r.Close())

		// Released pages are still readable through the mapping.
		assert.Equal(t, content, m.Bytes())

		require.NoError(t, m.Close())
		_, err = r.Read(buf)
		assert.ErrorIs(t, err, ErrClosed)
	}
}

func TestReader_Empty(t *testing.T) {
	m, err := Open(writeTemp(t, nil))
	require.NoError(t, err)
	defer m.Close()

	n, err := m.NewReader(DefaultReleaseWindow).Read(make([]byte, 8))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}
