// Package blobstore provides the storage abstraction for board datasets and
// their manifests.
//
// Datasets are write-once: a blob becomes visible under its name only when
// the writer is closed successfully, and Abort leaves no trace of a failed
// build. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, read through mmap
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: any S3-compatible endpoint through minio-go
//
// A query streams a dataset from front to back; NewReader turns any Blob
// into such a stream:
//
//	blob, err := store.Open(ctx, "boards.bin")
//	if err != nil { ... }
//	defer blob.Close()
//
//	r, err := blobstore.NewReader(ctx, blob)
package blobstore
