package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lakeload/internal/domain"
)

// Compile-time check: LocalStore implements ObjectStore.
var _ ObjectStore = (*LocalStore)(nil)

// LocalStore maps object keys onto a directory tree. It backs the "local"
// connection mode and is also used as the store in tests.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("local store root is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create local store root %q: %w", dir, err)
	}
	return &LocalStore{root: dir}, nil
}

// Put writes data under key, overwriting any existing file.
func (s *LocalStore) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directories for %q: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Stat returns the byte length of the file at key.
func (s *LocalStore) Stat(_ context.Context, key string) (int64, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, domain.ErrNotFound("object %q not found", key)
		}
		return 0, fmt.Errorf("stat %q: %w", key, err)
	}
	return info.Size(), nil
}
