// Package mmap maps dataset files read-only into memory.
//
// A mapped dataset is scanned front to back exactly once per query, so Open
// advises the kernel of sequential access and the page cache is shared
// between concurrent queries.
//
//	m, err := mmap.Open("boards.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	r := m.NewReader(mmap.DefaultReleaseWindow)
//	defer r.Close()
//
// On Unix the mapping uses mmap(2) and madvise(2). On Windows it uses
// CreateFileMapping/MapViewOfFile and paging hints are skipped.
//
// A Reader drops the pages it has consumed every window bytes, keeping the
// resident set of a full scan bounded. Close is idempotent. Callers must not
// touch the slice returned by Bytes after Close returns.
package mmap
