// Package testutil provides shared mock implementations for use in tests
// across the codebase. This follows the Go convention of a shared test
// utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"
)

// MockExecutor implements the Exec(ctx, stmt) interface used by the
// provisioner and the statement runner. Statements are recorded in order.
type MockExecutor struct {
	ExecFn func(ctx context.Context, stmt string) error

	mu         sync.Mutex
	Statements []string // every statement passed to Exec, in call order
}

// Exec records stmt and delegates to ExecFn when set.
func (m *MockExecutor) Exec(ctx context.Context, stmt string) error {
	m.mu.Lock()
	m.Statements = append(m.Statements, stmt)
	m.mu.Unlock()
	if m.ExecFn != nil {
		return m.ExecFn(ctx, stmt)
	}
	return nil
}

// MockObjectStore implements store.ObjectStore backed by a map.
type MockObjectStore struct {
	PutFn  func(ctx context.Context, key string, data []byte) error
	StatFn func(ctx context.Context, key string) (int64, error)

	mu      sync.Mutex
	Objects map[string][]byte // committed objects by key
}

// Put stores data under key (overwriting) and delegates to PutFn when set.
func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte) error {
	if m.PutFn != nil {
		if err := m.PutFn(ctx, key, data); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = map[string][]byte{}
	}
	m.Objects[key] = append([]byte(nil), data...)
	return nil
}

// Stat returns the stored length, or delegates to StatFn when set.
func (m *MockObjectStore) Stat(ctx context.Context, key string) (int64, error) {
	if m.StatFn != nil {
		return m.StatFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[key]
	if !ok {
		return 0, errNotFound(key)
	}
	return int64(len(data)), nil
}

type keyError string

func (e keyError) Error() string { return "object not found: " + string(e) }

func errNotFound(key string) error { return keyError(key) }
