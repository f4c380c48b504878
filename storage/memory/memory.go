// Package memory provides a thread-safe in-memory storage backend.
// Suitable for tests, demos, and ephemeral sessions.
package memory

import (
	"sync"

	"github.com/albin6/authdeck/storage"
)

// Backend is a thread-safe in-memory implementation of storage.Backend.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Backend = (*Backend)(nil)

// NewBackend creates a new empty in-memory Backend.
func NewBackend() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

func (b *Backend) Put(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), value...)
	return nil
}

func (b *Backend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (b *Backend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.data[key]; !ok {
		return storage.ErrNotFound
	}
	delete(b.data, key)
	return nil
}
