package sealed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albin6/authdeck/internal/util"
)

var testParams = util.Argon2idParams{Time: 1, MemoryKiB: 1024, Parallelism: 1, KeyLen: 32}

func TestBoxRoundTrip(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltLen)

	box, err := NewBox("passphrase", salt, testParams)
	require.NoError(t, err)

	ct, err := box.Seal([]byte("token-value"), []byte("authToken"))
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "token-value")

	pt, err := box.Open(ct, []byte("authToken"))
	require.NoError(t, err)
	assert.Equal(t, []byte("token-value"), pt)
}

func TestBoxAADBinding(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	box, err := NewBox("passphrase", salt, testParams)
	require.NoError(t, err)

	ct, err := box.Seal([]byte("v"), []byte("authToken"))
	require.NoError(t, err)

	// A value sealed for one key must not open under another.
	_, err = box.Open(ct, []byte("refreshToken"))
	assert.Error(t, err)
}

func TestBoxNormalizesPassphrase(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	// Composed and decomposed forms of the same passphrase.
	b1, err := NewBox("café", salt, testParams)
	require.NoError(t, err)
	b2, err := NewBox("café", salt, testParams)
	require.NoError(t, err)

	ct, err := b1.Seal([]byte("v"), nil)
	require.NoError(t, err)
	pt, err := b2.Open(ct, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), pt)
}

func TestNewBoxRejectsEmptyPassphrase(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	_, err = NewBox("", salt, testParams)
	assert.Error(t, err)
}
