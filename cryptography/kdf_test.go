package cryptography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	salt, err := GenRandom(SaltSize)
	require.NoError(t, err)
	otherSalt, err := GenRandom(SaltSize)
	require.NoError(t, err)

	for _, kdf := range []KDF{PBKDF2, Argon2id} {
		key, err := DeriveKey(kdf, []byte("password"), salt)
		require.NoError(t, err, kdf.String())
		if len(key) != SymKeySize {
			t.Errorf("Invalid size of output key: %d", len(key))
		}

		again, err := DeriveKey(kdf, []byte("password"), salt)
		require.NoError(t, err)
		assert.Equal(t, key, again, "%s must be deterministic", kdf)

		wrong, err := DeriveKey(kdf, []byte("passw0rd"), salt)
		require.NoError(t, err)
		assert.NotEqual(t, key, wrong)

		salted, err := DeriveKey(kdf, []byte("password"), otherSalt)
		require.NoError(t, err)
		assert.NotEqual(t, key, salted)
	}

	pb, _ := DeriveKey(PBKDF2, []byte("password"), salt)
	ar, _ := DeriveKey(Argon2id, []byte("password"), salt)
	assert.NotEqual(t, pb, ar)

	_, err = DeriveKey(PBKDF2, []byte("password"), salt[:4])
	assert.Error(t, err)
	_, err = DeriveKey(KDF(9), []byte("password"), salt)
	assert.Error(t, err)
}

func TestParseKDF(t *testing.T) {
	tests := map[string]KDF{
		"":         PBKDF2,
		"pbkdf2":   PBKDF2,
		"PBKDF2":   PBKDF2,
		"argon2id": Argon2id,
		" argon2 ": Argon2id,
	}
	for name, expected := range tests {
		kdf, err := ParseKDF(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, kdf, name)
	}
	_, err := ParseKDF("scrypt")
	assert.Error(t, err)

	assert.Equal(t, "argon2id", Argon2id.String())
	assert.True(t, PBKDF2.Valid())
	assert.False(t, KDF(7).Valid())
}
