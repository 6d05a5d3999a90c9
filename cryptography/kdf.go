package cryptography

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KDF selects how a password turns into an encryption key.
type KDF uint8

const (
	PBKDF2 KDF = iota
	Argon2id
)

func (k KDF) String() string {
	switch k {
	case PBKDF2:
		return "pbkdf2"
	case Argon2id:
		return "argon2id"
	}
	return fmt.Sprintf("kdf(%d)", uint8(k))
}

func (k KDF) Valid() bool {
	return k == PBKDF2 || k == Argon2id
}

// ParseKDF accepts the names String returns. An empty name means PBKDF2.
func ParseKDF(name string) (KDF, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pbkdf2":
		return PBKDF2, nil
	case "argon2id", "argon2":
		return Argon2id, nil
	}
	return 0, fmt.Errorf("unknown key derivation function %q", name)
}

// DeriveKey derives a SymKeySize key from password and salt.
func DeriveKey(kdf KDF, password, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("invalid salt length %d", len(salt))
	}
	switch kdf {
	case PBKDF2:
		return pbkdf2.Key(password, salt, Iterations, SymKeySize, sha256.New), nil
	case Argon2id:
		/*
		 * the draft RFC recommends time=3 and memory=32*1024 (32 MB) is a sensible number.
		 */
		return argon2.IDKey(password, salt, Argon2Time, Argon2Memory, Argon2Threads, SymKeySize), nil
	}
	return nil, fmt.Errorf("unknown key derivation function %d", kdf)
}
