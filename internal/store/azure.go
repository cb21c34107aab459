package store

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"lakeload/internal/config"
)

// Compile-time check: AzureStore implements ObjectStore.
var _ ObjectStore = (*AzureStore)(nil)

// AzureStore uploads to Azure Blob Storage using shared-key credentials.
// Only account-key authentication is supported; service principal auth is
// not yet implemented.
type AzureStore struct {
	client    *azblob.Client
	container string
}

// NewAzureStore creates an AzureStore from the config's Azure fields.
func NewAzureStore(cfg *config.Config) (*AzureStore, error) {
	if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
		return nil, fmt.Errorf("Azure account name and key are required")
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AzureAccountName, cfg.AzureAccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AzureAccountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}

	return &AzureStore{
		client:    client,
		container: cfg.AzureContainer,
	}, nil
}

// Put uploads data under key, overwriting any existing blob.
func (s *AzureStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.UploadBuffer(ctx, s.container, key, data, nil)
	if err != nil {
		return fmt.Errorf("upload %q to container %q: %w", key, s.container, err)
	}
	return nil
}

// Stat returns the remote byte length of the blob at key.
func (s *AzureStore) Stat(ctx context.Context, key string) (int64, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(key)
	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("get properties for %q in container %q: %w", key, s.container, err)
	}
	if props.ContentLength == nil {
		return 0, fmt.Errorf("no content length for %q in container %q", key, s.container)
	}
	return *props.ContentLength, nil
}
