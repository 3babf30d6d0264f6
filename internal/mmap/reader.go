package mmap

import (
	"io"
	"os"
)

// DefaultReleaseWindow is how far a Reader advances between page releases.
const DefaultReleaseWindow = 64 << 20

// Reader streams a mapping front to back and advises the kernel to drop
// pages it has passed, so a scan of a multi-gigabyte dataset does not keep
// the whole file resident. It must not outlive the mapping.
type Reader struct {
	m        *Mapping
	off      int
	released int
	window   int
	page     int
}

// NewReader returns a Reader over m that releases consumed pages every
// window bytes. A window <= 0 never releases.
func (m *Mapping) NewReader(window int) *Reader {
	return &Reader{m: m, window: window, page: os.Getpagesize()}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.m.Closed() {
		return 0, ErrClosed
	}
	data := r.m.Bytes()
	if r.off >= len(data) {
		return 0, io.EOF
	}
	n := copy(p, data[r.off:])
	r.off += n
	r.release(data)
	return n, nil
}

// Offset returns the number of bytes read so far.
func (r *Reader) Offset() int { return r.off }

// Close releases the pages read since the last window. The mapping stays
// open.
func (r *Reader) Close() error {
	if data := r.m.Bytes(); data != nil {
		r.releaseTo(data, r.off)
	}
	return nil
}

func (r *Reader) release(data []byte) {
	if r.window <= 0 || r.off-r.released < r.window {
		return
	}
	r.releaseTo(data, r.off)
}

// releaseTo drops whole pages in [released, end). The kernel keeps serving
// dropped pages from the file if they are read again.
func (r *Reader) releaseTo(data []byte, end int) {
	end -= end % r.page
	if end <= r.released {
		return
	}
	advise(data[r.released:end], adviceDontNeed)
	r.released = end
}
