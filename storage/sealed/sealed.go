// Package sealed encrypts stored token values at rest.
//
// The sealing key is derived from a passphrase with Argon2id and held
// in a memguard Enclave, so the raw key spends as little time as
// possible in addressable memory. A backend compromise alone does not
// recover the tokens.
package sealed

import (
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/albin6/authdeck/internal/util"
	"github.com/albin6/authdeck/storage"
)

// SaltLen is the length of the random salt generated by NewSalt.
const SaltLen = 16

// Box implements storage.Box with AES-256-GCM under an Argon2id
// passphrase-derived key.
type Box struct {
	key *memguard.Enclave
}

var _ storage.Box = (*Box)(nil)

// NewSalt returns a fresh random salt for deriving a sealing key.
func NewSalt() ([]byte, error) {
	return util.RandomBytes(SaltLen)
}

// NewBox derives a sealing key from the passphrase and salt. The
// passphrase is NFKD-normalized before derivation so the same visual
// input always opens the box.
func NewBox(passphrase string, salt []byte, params util.Argon2idParams) (*Box, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	normalized := []byte(util.Normalize(passphrase))
	defer util.WipeBytes(normalized)

	key, err := util.DeriveArgon2idKey(normalized, salt, params)
	if err != nil {
		return nil, fmt.Errorf("deriving sealing key: %w", err)
	}
	// NewEnclave wipes the source slice.
	return &Box{key: memguard.NewEnclave(key)}, nil
}

// Seal encrypts plaintext bound to aad.
func (b *Box) Seal(plaintext, aad []byte) ([]byte, error) {
	buf, err := b.key.Open()
	if err != nil {
		return nil, fmt.Errorf("opening key enclave: %w", err)
	}
	defer buf.Destroy()
	return util.EncryptAESGCM(plaintext, buf.Bytes(), aad)
}

// Open decrypts a value previously produced by Seal with the same aad.
func (b *Box) Open(ciphertext, aad []byte) ([]byte, error) {
	buf, err := b.key.Open()
	if err != nil {
		return nil, fmt.Errorf("opening key enclave: %w", err)
	}
	defer buf.Destroy()
	return util.DecryptAESGCM(ciphertext, buf.Bytes(), aad)
}
