package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/salvo/blobstore"
	"github.com/hupe1980/salvo/blobstore/minio"
	s3store "github.com/hupe1980/salvo/blobstore/s3"
)

// OpenStore creates the blob store described by c.
func OpenStore(ctx context.Context, c StoreConfig) (blobstore.BlobStore, error) {
	switch c.Kind {
	case "", "local":
		root := c.Root
		if root == "" {
			root = "."
		}
		return blobstore.NewLocalStore(root), nil

	case "s3":
		if c.Bucket == "" {
			return nil, fmt.Errorf("store: s3 requires a bucket")
		}
		var loadOpts []func(*awsconfig.LoadOptions) error
		if c.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(c.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("store: load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if c.Endpoint != "" {
				o.BaseEndpoint = aws.String(c.Endpoint)
				o.UsePathStyle = true
			}
		})
		var opts []s3store.Option
		if c.NoOverwrite {
			opts = append(opts, s3store.WithNoOverwrite())
		}
		return s3store.NewStore(client, c.Bucket, c.Prefix, opts...), nil

	case "minio":
		if c.Bucket == "" || c.Endpoint == "" {
			return nil, fmt.Errorf("store: minio requires an endpoint and a bucket")
		}
		client, err := miniogo.New(c.Endpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
			Secure: !c.Insecure,
			Region: c.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("store: minio client: %w", err)
		}
		return minio.NewStore(client, c.Bucket, c.Prefix), nil

	default:
		return nil, fmt.Errorf("store: unknown kind %q", c.Kind)
	}
}
