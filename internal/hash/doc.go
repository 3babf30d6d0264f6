// Package hash provides the checksums used to verify datasets.
//
// # CRC32-Castagnoli (CRC32C)
//
// CRC32C guards the stored dataset file byte for byte. It is hardware
// accelerated on x86 (SSE4.2) and ARM (CRC extension) and detects all
// burst errors up to 32 bits.
//
//	var c hash.FileChecksum
//	io.Copy(&c, file)
//	sum, size := c.Sum32(), c.Size()
//
// # Content digest
//
// The content digest is a SHA-256 over the decoded absolute boards. Two
// datasets with different compression or record formats describe the same
// boards exactly when their digests match.
//
//	d := hash.NewContentDigest()
//	d.Write(record)
//	hex := d.Hex()
package hash
