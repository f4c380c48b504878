// Package storage persists the session token pair in durable key-value
// storage. The token store is the only state that survives a process
// restart; everything else is rebuilt from it on rehydration.
package storage

import (
	"errors"
	"fmt"
)

// Storage keys for the persisted token pair. The pair is always written
// and removed together.
const (
	KeyAccessToken  = "authToken"
	KeyRefreshToken = "refreshToken"
)

var (
	// ErrNotFound is returned by a Backend when a key is absent.
	ErrNotFound = errors.New("key not found")
	// ErrNoSession is returned by Load when no token pair is stored.
	ErrNoSession = errors.New("no stored session")
)

// Tokens is the persisted credential pair. Refresh may be empty; Access
// never is for a stored pair.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Backend is the minimal key-value surface a token store runs on.
type Backend interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// Box seals token values at rest. The aad is the storage key the value
// is written under, so a sealed value cannot be swapped between keys.
type Box interface {
	Seal(plaintext, aad []byte) ([]byte, error)
	Open(ciphertext, aad []byte) ([]byte, error)
}

// TokenStore reads and writes the persisted token pair. Writes are
// whole-value replacements: Save stores both keys, Clear removes both.
type TokenStore struct {
	backend Backend
	box     Box
}

// Option configures a TokenStore.
type Option func(*TokenStore)

// WithBox seals stored token values with the given Box. Without a box,
// values are stored as plain strings.
func WithBox(box Box) Option {
	return func(s *TokenStore) {
		s.box = box
	}
}

// NewTokenStore creates a token store on the given backend.
func NewTokenStore(backend Backend, opts ...Option) *TokenStore {
	s := &TokenStore{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores the token pair, replacing any previous pair. A refresh
// token is never stored without an access token.
func (s *TokenStore) Save(t Tokens) error {
	if t.Access == "" {
		return fmt.Errorf("access token must not be empty")
	}
	if err := s.put(KeyAccessToken, t.Access); err != nil {
		return fmt.Errorf("saving access token: %w", err)
	}
	if t.Refresh == "" {
		// Drop any refresh token left over from a previous pair.
		if err := s.backend.Delete(KeyRefreshToken); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("clearing stale refresh token: %w", err)
		}
		return nil
	}
	if err := s.put(KeyRefreshToken, t.Refresh); err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}
	return nil
}

// Load returns the stored token pair, or ErrNoSession when no access
// token is stored.
func (s *TokenStore) Load() (Tokens, error) {
	access, err := s.get(KeyAccessToken)
	if errors.Is(err, ErrNotFound) {
		return Tokens{}, ErrNoSession
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("loading access token: %w", err)
	}
	refresh, err := s.get(KeyRefreshToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Tokens{}, fmt.Errorf("loading refresh token: %w", err)
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

// Clear removes both stored tokens. Clearing an empty store is not an
// error.
func (s *TokenStore) Clear() error {
	var firstErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken} {
		if err := s.backend.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			if firstErr == nil {
				firstErr = fmt.Errorf("clearing %s: %w", key, err)
			}
		}
	}
	return firstErr
}

func (s *TokenStore) put(key, value string) error {
	data := []byte(value)
	if s.box != nil {
		sealed, err := s.box.Seal(data, []byte(key))
		if err != nil {
			return err
		}
		data = sealed
	}
	return s.backend.Put(key, data)
}

func (s *TokenStore) get(key string) (string, error) {
	data, err := s.backend.Get(key)
	if err != nil {
		return "", err
	}
	if s.box != nil {
		opened, err := s.box.Open(data, []byte(key))
		if err != nil {
			return "", fmt.Errorf("unsealing %s: %w", key, err)
		}
		data = opened
	}
	return string(data), nil
}
