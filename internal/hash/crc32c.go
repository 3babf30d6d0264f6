package hash

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// FileChecksum accumulates the CRC32C and length of a stored file as it is
// written or read.
type FileChecksum struct {
	crc  uint32
	size int64
}

// Write adds p. It never fails.
func (c *FileChecksum) Write(p []byte) (int, error) {
	c.crc = crc32.Update(c.crc, castagnoli, p)
	c.size += int64(len(p))
	return len(p), nil
}

// Sum32 returns the checksum of the bytes written so far.
func (c *FileChecksum) Sum32() uint32 { return c.crc }

// Size returns the number of bytes written so far.
func (c *FileChecksum) Size() int64 { return c.size }
