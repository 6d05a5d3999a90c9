package cryptography

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
)

var (
	ErrInvalidKey = errors.New("invalid key")
	// wrong password, damaged ciphertext and bad padding all look the same.
	ErrDecrypt = errors.New("authentication or padding failure")
)

// Encrypt encrypts data with AES-256-CBC under a fresh random iv.
// The plaintext is padded with PKCS#7, so the ciphertext is always
// a whole number of blocks and never empty.
func Encrypt(data, key []byte) (iv []byte, ct []byte, err error) {
	if len(key) != SymKeySize {
		return nil, nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	iv, err = GenRandom(IVSize)
	if err != nil {
		return nil, nil, err
	}

	pt := pad(data, BlockSize)
	ct = make([]byte, len(pt))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, pt)
	return iv, ct, nil
}

func Decrypt(ct, key, iv []byte) ([]byte, error) {
	pt, err := DecryptBlocks(ct, key, iv)
	if err != nil {
		return nil, err
	}
	return Unpad(pt)
}

// DecryptBlocks decrypts ct without touching the padding. In CBC every
// plaintext block depends only on its own and the previous ciphertext
// block, so decrypting a longer stream once also decrypts each of its
// block aligned prefixes.
func DecryptBlocks(ct, key, iv []byte) ([]byte, error) {
	if len(key) != SymKeySize {
		return nil, ErrInvalidKey
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("invalid iv length %d", len(iv))
	}
	if len(ct) == 0 || len(ct)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrDecrypt)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)
	return pt, nil
}

// Unpad strips PKCS#7 padding.
func Unpad(data []byte) ([]byte, error) {
	return unpad(data, BlockSize)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrDecrypt
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrDecrypt
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecrypt
		}
	}
	return data[:len(data)-n], nil
}

// generate a random amount of bytes
func GenRandom(size uint) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("GenRandom: invalid size of random data")
	}
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Hash returns the first DigestSize hex characters of sha256(data).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:DigestSize]
}

// verify hash of data
func VerifyHash(data []byte, hash string) bool {
	if len(hash) != DigestSize {
		return false
	}
	return hmac.Equal([]byte(Hash(data)), []byte(hash))
}

// Digest hashes a stream incrementally. Matches compares everything
// written so far with a Hash value, and writing may go on afterwards.
type Digest struct {
	h hash.Hash
}

func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

func (d *Digest) Write(p []byte) {
	d.h.Write(p)
}

func (d *Digest) String() string {
	return hex.EncodeToString(d.h.Sum(nil))[:DigestSize]
}

func (d *Digest) Matches(digest []byte) bool {
	if len(digest) != DigestSize {
		return false
	}
	return hmac.Equal([]byte(d.String()), digest)
}

// IsDigest tells whether s looks like something Hash could have returned.
func IsDigest(s []byte) bool {
	if len(s) != DigestSize {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
