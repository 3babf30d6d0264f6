//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	adviceSequential = unix.MADV_SEQUENTIAL
	adviceDontNeed   = unix.MADV_DONTNEED
)

func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

// advise passes a paging hint for data. Hints are best effort; failures
// are dropped.
func advise(data []byte, advice int) {
	if len(data) > 0 {
		_ = unix.Madvise(data, advice)
	}
}
