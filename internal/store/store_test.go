package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakeload/internal/config"
)

func TestNewDispatchesLocal(t *testing.T) {
	cfg := &config.Config{Store: config.StoreLocal, LocalStoreDir: t.TempDir()}
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)
}

func TestNewDispatchesS3(t *testing.T) {
	k, sec, r, b := "key", "secret", "eu-central", "bucket"
	ep := "s3.example.com"
	cfg := &config.Config{
		Store:   config.StoreS3,
		S3KeyID: &k, S3Secret: &sec, S3Region: &r, S3Bucket: &b, S3Endpoint: &ep,
	}
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, s)
}

func TestNewS3StoreIncomplete(t *testing.T) {
	_, err := NewS3Store(&config.Config{Store: config.StoreS3})
	assert.Error(t, err)
}

func TestNewAzureStoreMissingKey(t *testing.T) {
	_, err := NewAzureStore(&config.Config{Store: config.StoreAzure, AzureAccountName: "acct"})
	assert.Error(t, err)
}

func TestNewGCSStoreMissingBucket(t *testing.T) {
	_, err := NewGCSStore(context.Background(), &config.Config{Store: config.StoreGCS})
	assert.Error(t, err)
}

func TestNewUnknownMode(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Store: "ftp"})
	assert.Error(t, err)
}
