package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"lakeload/internal/config"
)

// Compile-time check: GCSStore implements ObjectStore.
var _ ObjectStore = (*GCSStore)(nil)

// GCSStore uploads to Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a GCSStore from the config's GCS fields. When a key
// file is configured it is used for authentication; otherwise application
// default credentials apply.
func NewGCSStore(ctx context.Context, cfg *config.Config) (*GCSStore, error) {
	if cfg.GCSBucket == "" {
		return nil, fmt.Errorf("GCS bucket is required")
	}

	var opts []option.ClientOption
	if cfg.GCSKeyFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.GCSKeyFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: cfg.GCSBucket,
	}, nil
}

// Put uploads data under key, overwriting any existing object.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %q to bucket %q: %w", key, s.bucket, err)
	}
	// The upload is committed on Close; errors surface here.
	if err := w.Close(); err != nil {
		return fmt.Errorf("commit %q to bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

// Stat returns the remote byte length of the object at key.
func (s *GCSStore) Stat(ctx context.Context, key string) (int64, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if err != nil {
		return 0, fmt.Errorf("attrs for %q in bucket %q: %w", key, s.bucket, err)
	}
	return attrs.Size, nil
}
