package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"lakeload/internal/config"
)

// Compile-time check: S3Store implements ObjectStore.
var _ ObjectStore = (*S3Store)(nil)

// S3Store uploads to S3-compatible object storage. It uses the AWS SDK v2,
// configured with path-style addressing for non-AWS endpoints, and the S3
// manager uploader, which switches to multipart transfers for large objects.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewS3Store creates an S3Store from the config's S3 fields.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	if !cfg.HasS3Config() {
		return nil, fmt.Errorf("S3 config is incomplete")
	}

	opts := s3.Options{
		Region: *cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			*cfg.S3KeyID, *cfg.S3Secret, "",
		),
	}
	if cfg.S3Endpoint != nil {
		opts.BaseEndpoint = aws.String("https://" + *cfg.S3Endpoint)
		opts.UsePathStyle = true // non-AWS endpoints require path-style URLs
	}
	client := s3.New(opts)

	bucket := "lakeload"
	if cfg.S3Bucket != nil {
		bucket = *cfg.S3Bucket
	}

	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
	}, nil
}

// Put uploads data under key, overwriting any existing object.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("upload %q to bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

// Stat returns the remote byte length of the object at key.
func (s *S3Store) Stat(ctx context.Context, key string) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("head %q in bucket %q: %w", key, s.bucket, err)
	}
	return aws.ToInt64(out.ContentLength), nil
}
