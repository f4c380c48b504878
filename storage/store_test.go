package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albin6/authdeck/internal/util"
	"github.com/albin6/authdeck/storage"
	"github.com/albin6/authdeck/storage/memory"
	"github.com/albin6/authdeck/storage/sealed"
)

func newStore(t *testing.T, opts ...storage.Option) *storage.TokenStore {
	t.Helper()
	return storage.NewTokenStore(memory.NewBackend(), opts...)
}

func TestTokenStore(t *testing.T) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(storage.Tokens{Access: "acc-1", Refresh: "ref-1"}))
		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, storage.Tokens{Access: "acc-1", Refresh: "ref-1"}, got)
	})

	t.Run("LoadEmpty", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Load()
		assert.ErrorIs(t, err, storage.ErrNoSession)
	})

	t.Run("SaveWithoutRefresh", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(storage.Tokens{Access: "acc-1", Refresh: "ref-1"}))
		require.NoError(t, s.Save(storage.Tokens{Access: "acc-2"}))

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, "acc-2", got.Access)
		// The stale refresh token from the previous pair must be gone.
		assert.Empty(t, got.Refresh)
	})

	t.Run("SaveRejectsEmptyAccess", func(t *testing.T) {
		s := newStore(t)
		assert.Error(t, s.Save(storage.Tokens{Refresh: "ref-only"}))
		_, err := s.Load()
		assert.ErrorIs(t, err, storage.ErrNoSession)
	})

	t.Run("ClearRemovesBoth", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(storage.Tokens{Access: "acc", Refresh: "ref"}))
		require.NoError(t, s.Clear())
		_, err := s.Load()
		assert.ErrorIs(t, err, storage.ErrNoSession)
	})

	t.Run("ClearEmptyStore", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Clear())
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(storage.Tokens{Access: "old", Refresh: "old-r"}))
		require.NoError(t, s.Save(storage.Tokens{Access: "new", Refresh: "new-r"}))
		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, storage.Tokens{Access: "new", Refresh: "new-r"}, got)
	})
}

func TestTokenStoreSealed(t *testing.T) {
	params := util.Argon2idParams{Time: 1, MemoryKiB: 1024, Parallelism: 1, KeyLen: 32}
	salt, err := sealed.NewSalt()
	require.NoError(t, err)

	box, err := sealed.NewBox("correct horse", salt, params)
	require.NoError(t, err)

	backend := memory.NewBackend()
	s := storage.NewTokenStore(backend, storage.WithBox(box))
	require.NoError(t, s.Save(storage.Tokens{Access: "acc", Refresh: "ref"}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, storage.Tokens{Access: "acc", Refresh: "ref"}, got)

	t.Run("CiphertextAtRest", func(t *testing.T) {
		raw, err := backend.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		assert.NotEqual(t, []byte("acc"), raw)
	})

	t.Run("WrongPassphrase", func(t *testing.T) {
		wrong, err := sealed.NewBox("incorrect horse", salt, params)
		require.NoError(t, err)
		bad := storage.NewTokenStore(backend, storage.WithBox(wrong))
		_, err = bad.Load()
		assert.Error(t, err)
	})
}
