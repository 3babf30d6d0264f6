// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := awss3.NewFromConfig(cfg)
//	store := s3.NewStore(client, "my-bucket", "datasets/",
//	    s3.WithNoOverwrite(),
//	)
//
// # Features
//
//   - Ranged GETs, so a query can stream a dataset without a local copy
//   - Multipart uploads with CRC32C checksums for large datasets
//   - Conditional writes (If-None-Match) so a published dataset is never replaced
//   - Automatic pagination for listing
package s3
