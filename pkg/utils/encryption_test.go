package utils

import (
	"crypto/rand"
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := NewCipher(key)
	require.NoError(t, err)
	return c
}

func TestCipherRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.Encrypt("token-abc", "jwtToken")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "token-abc")

	plain, err := c.Decrypt(sealed, "jwtToken")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", plain)

	again, err := c.Encrypt("token-abc", "jwtToken")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must be fresh for every seal")
}

func TestCipherRejectsWrongSlot(t *testing.T) {
	c := newTestCipher(t)
	sealed, err := c.Encrypt("secret", "userInfo")
	require.NoError(t, err)

	_, err = c.Decrypt(sealed, "contactsInfo")
	assert.Error(t, err)
}

func TestCipherRejectsTampering(t *testing.T) {
	c := newTestCipher(t)
	sealed, err := c.Encrypt("secret", "k")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString(raw), "k")
	assert.Error(t, err)

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString([]byte("abc")), "k")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestParseEncryptionKey(t *testing.T) {
	good := base64.StdEncoding.EncodeToString(make([]byte, KeySize))

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", good, false},
		{"empty", "", true},
		{"not base64", "%%%", true},
		{"short", base64.StdEncoding.EncodeToString(make([]byte, 16)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseEncryptionKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, KeySize)
		})
	}
}

func TestNewCipherKeyLength(t *testing.T) {
	_, err := NewCipher([]byte("short"))
	assert.Error(t, err)
}

func TestDeriveKeyIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json.salt")

	salt, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Len(t, salt, saltLength)

	reloaded, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Equal(t, salt, reloaded)

	k1, err := DeriveKey("correct horse", salt)
	require.NoError(t, err)
	k2, err := DeriveKey("correct horse", reloaded)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeySize)

	k3, err := DeriveKey("battery staple", salt)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestDeriveKeyInputs(t *testing.T) {
	_, err := DeriveKey("", make([]byte, saltLength))
	assert.Error(t, err)

	_, err = DeriveKey("pass", []byte("tiny"))
	assert.Error(t, err)
}
