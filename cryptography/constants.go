package cryptography

import (
	"crypto/aes"
)

const (
	// symmetric encryption
	SymKeySize = 32 // AES-256
	BlockSize  = aes.BlockSize
	IVSize     = aes.BlockSize
	SaltSize   = 16

	// pbkdf2 work factor. it is not stored anywhere, so changing it
	// makes every existing encrypted image unreadable.
	Iterations = 100000

	// argon2id parameters, same story as above. the thread count is part
	// of the derivation, so it is fixed instead of runtime.NumCPU().
	Argon2Time    = 3
	Argon2Memory  = 32 * 1024
	Argon2Threads = 4

	// length of the truncated hex digest
	DigestSize = 16
)
