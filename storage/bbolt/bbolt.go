// Package bbolt provides a BBolt-backed storage backend.
package bbolt

import (
	"fmt"

	"github.com/albin6/authdeck/storage"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("session")

// Backend implements storage.Backend on a BBolt database.
type Backend struct {
	db *bbolt.DB
}

var _ storage.Backend = (*Backend)(nil)

// NewBackend returns a Backend on the given BBolt database.
func NewBackend(db *bbolt.DB) *Backend {
	return &Backend{db: db}
}

// NewBackendFromFile opens a BBolt database at path and returns a new
// Backend on it.
func NewBackendFromFile(path string, options *bbolt.Options) (*Backend, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBackend(db), nil
}

// Close closes the underlying BBolt database.
func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), value)
	})
}

func (b *Backend) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		if bkt == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		data := bkt.Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		value = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *Backend) Delete(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		if bkt == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		if bkt.Get([]byte(key)) == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		return bkt.Delete([]byte(key))
	})
}
