package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albin6/authdeck/storage"
)

func TestBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	b, err := NewBackendFromFile(path, nil)
	require.NoError(t, err)
	defer b.Close()

	t.Run("PutAndGet", func(t *testing.T) {
		require.NoError(t, b.Put("authToken", []byte("acc")))
		got, err := b.Get("authToken")
		require.NoError(t, err)
		assert.Equal(t, []byte("acc"), got)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := b.Get("no-such-key")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, b.Put("refreshToken", []byte("ref")))
		require.NoError(t, b.Delete("refreshToken"))
		_, err := b.Get("refreshToken")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		assert.ErrorIs(t, b.Delete("never-existed"), storage.ErrNotFound)
	})
}

func TestBackendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	b, err := NewBackendFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, b.Put("authToken", []byte("persisted")))
	require.NoError(t, b.Close())

	b2, err := NewBackendFromFile(path, nil)
	require.NoError(t, err)
	defer b2.Close()

	got, err := b2.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}
