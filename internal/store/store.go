// Package store provides object-store backends for volume uploads.
package store

import (
	"context"

	"lakeload/internal/config"
	"lakeload/internal/domain"
)

// ObjectStore is a write-oriented object store keyed by slash-separated paths.
// Put always overwrites: uploading the same key twice replaces the object,
// never appends. Stat reports the remote byte length for post-upload
// verification.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Stat(ctx context.Context, key string) (int64, error)
}

// New creates the ObjectStore selected by the config's store mode.
// The config must already have passed Validate.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.Store {
	case config.StoreS3:
		return NewS3Store(cfg)
	case config.StoreAzure:
		return NewAzureStore(cfg)
	case config.StoreGCS:
		return NewGCSStore(ctx, cfg)
	case config.StoreLocal:
		return NewLocalStore(cfg.LocalStoreDir)
	default:
		return nil, domain.ErrValidation("unsupported store mode %q", cfg.Store)
	}
}
