package mmap

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by readers of a mapping that has been closed.
	ErrClosed = errors.New("mmap: mapping is closed")

	// ErrTooLarge is returned for a file that does not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
)

// Mapping is a read-only view of a whole dataset file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func() error
}

// Open maps the file at path and hints the kernel that it will be read
// front to back. An empty file yields an empty mapping without a view.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return &Mapping{}, nil
	}
	if fi.Size() > math.MaxInt {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, fi.Size())
	}

	data, unmap, err := mapFile(f, int(fi.Size()))
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	advise(data, adviceSequential)
	return &Mapping{data: data, unmap: unmap}, nil
}

// Close drops the view. Later calls are no-ops.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap()
}

// Bytes returns the mapped file, or nil once the mapping is closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Closed reports whether Close has been called.
func (m *Mapping) Closed() bool { return m.closed.Load() }

// Size is the file size at the time it was mapped.
func (m *Mapping) Size() int { return len(m.data) }
