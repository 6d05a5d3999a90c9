/*
Package frame builds and parses the byte sequence that actually gets
embedded into an image.

Every frame starts with one mode byte:

	0x00  plain       hash(16 hex) ':' text
	0x01  encrypted   salt(16) iv(16) AES-256-CBC(hash ':' text), key from PBKDF2-SHA256
	0x02  encrypted   same layout, key from Argon2id

The hash is the first 16 hex characters of sha256(text). Encrypted frames
carry the hashed body inside the ciphertext, so a wrong password is
caught even when the padding happens to look valid.
*/
package frame

import (
	"fmt"
	"unicode/utf8"

	"pixhide/cryptography"
	"pixhide/stegano/util"
)

type Mode uint8

const (
	Plain             Mode = 0x00
	EncryptedPBKDF2   Mode = 0x01
	EncryptedArgon2id Mode = 0x02
)

const (
	ModeSize  = 1
	Separator = ':'

	// hash + separator in front of the text
	BodyOverhead = cryptography.DigestSize + 1
	// salt + iv in front of the ciphertext
	EnvelopeHeader = cryptography.SaltSize + cryptography.IVSize
	// smallest valid envelope: header and a single block
	MinEnvelope = EnvelopeHeader + cryptography.BlockSize
)

// ErrPasswordRequired is returned for an encrypted frame when no
// password was supplied. It is a caller input error.
var ErrPasswordRequired = fmt.Errorf("%w: message is encrypted, password required", util.ErrValidation)

func (m Mode) Encrypted() bool {
	return m == EncryptedPBKDF2 || m == EncryptedArgon2id
}

func (m Mode) Known() bool {
	return m == Plain || m.Encrypted()
}

func (m Mode) KDF() cryptography.KDF {
	if m == EncryptedArgon2id {
		return cryptography.Argon2id
	}
	return cryptography.PBKDF2
}

func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case EncryptedPBKDF2:
		return "encrypted/pbkdf2"
	case EncryptedArgon2id:
		return "encrypted/argon2id"
	}
	return fmt.Sprintf("mode(0x%02x)", uint8(m))
}

func modeFor(kdf cryptography.KDF) (Mode, error) {
	switch kdf {
	case cryptography.PBKDF2:
		return EncryptedPBKDF2, nil
	case cryptography.Argon2id:
		return EncryptedArgon2id, nil
	}
	return 0, fmt.Errorf("%w: unknown key derivation function %d", util.ErrConfig, kdf)
}

// Len returns the frame length for a text of textLen bytes.
func Len(textLen int, encrypted bool) int {
	body := BodyOverhead + textLen
	if !encrypted {
		return ModeSize + body
	}
	padded := (body/cryptography.BlockSize + 1) * cryptography.BlockSize
	return ModeSize + EnvelopeHeader + padded
}

// body is hash ':' text
func body(text string) []byte {
	res := make([]byte, 0, BodyOverhead+len(text))
	res = append(res, cryptography.Hash([]byte(text))...)
	res = append(res, Separator)
	return append(res, text...)
}

// Build composes the frame for text. An empty password gives a plain
// frame, anything else an encrypted one keyed through kdf.
func Build(text, password string, kdf cryptography.KDF) ([]byte, error) {
	if password == "" {
		return append([]byte{byte(Plain)}, body(text)...), nil
	}

	mode, err := modeFor(kdf)
	if err != nil {
		return nil, err
	}
	salt, err := cryptography.GenRandom(cryptography.SaltSize)
	if err != nil {
		return nil, err
	}
	key, err := cryptography.DeriveKey(kdf, []byte(password), salt)
	if err != nil {
		return nil, err
	}
	iv, ct, err := cryptography.Encrypt(body(text), key)
	if err != nil {
		return nil, err
	}

	res := make([]byte, 0, ModeSize+EnvelopeHeader+len(ct))
	res = append(res, byte(mode))
	res = append(res, salt...)
	res = append(res, iv...)
	return append(res, ct...), nil
}

/*
 * Parser turns frames back into text. It remembers the keys it derived,
 * so feeding it several candidate frames that share a salt costs a single
 * key derivation.
 */
type Parser struct {
	password []byte
	keys     map[string][]byte
}

func NewParser(password string) *Parser {
	return &Parser{
		password: []byte(password),
		keys:     map[string][]byte{},
	}
}

// Parse is a shortcut for a one-off frame.
func Parse(data []byte, password string) (string, error) {
	return NewParser(password).Parse(data)
}

// Parse recovers the text of a frame. Malformed frames give
// util.ErrNotFound, frames that are well formed but fail verification
// give util.ErrIntegrity.
func (p *Parser) Parse(data []byte) (string, error) {
	if len(data) < ModeSize {
		return "", fmt.Errorf("%w: empty frame", util.ErrNotFound)
	}
	mode := Mode(data[0])
	switch {
	case mode == Plain:
		b := data[ModeSize:]
		if !wellFormed(b) {
			return "", fmt.Errorf("%w: malformed plain frame", util.ErrNotFound)
		}
		return verify(b)
	case mode.Encrypted():
		return p.parseEncrypted(mode, data[ModeSize:])
	}
	return "", fmt.Errorf("%w: unknown frame mode 0x%02x", util.ErrNotFound, data[0])
}

func (p *Parser) parseEncrypted(mode Mode, env []byte) (string, error) {
	if len(env) < MinEnvelope || (len(env)-EnvelopeHeader)%cryptography.BlockSize != 0 {
		return "", fmt.Errorf("%w: malformed encrypted frame", util.ErrNotFound)
	}
	if len(p.password) == 0 {
		return "", ErrPasswordRequired
	}

	salt := env[:cryptography.SaltSize]
	iv := env[cryptography.SaltSize:EnvelopeHeader]
	ct := env[EnvelopeHeader:]

	key, err := p.key(mode.KDF(), salt)
	if err != nil {
		return "", err
	}
	pt, err := cryptography.Decrypt(ct, key, iv)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrIntegrity, err)
	}
	if !wellFormed(pt) {
		return "", fmt.Errorf("%w: decrypted frame is malformed", util.ErrIntegrity)
	}
	return verify(pt)
}

func (p *Parser) key(kdf cryptography.KDF, salt []byte) ([]byte, error) {
	id := string([]byte{byte(kdf)}) + string(salt)
	if key, ok := p.keys[id]; ok {
		return key, nil
	}
	key, err := cryptography.DeriveKey(kdf, p.password, salt)
	if err != nil {
		return nil, err
	}
	p.keys[id] = key
	return key, nil
}

func wellFormed(b []byte) bool {
	return len(b) >= BodyOverhead &&
		b[cryptography.DigestSize] == Separator &&
		cryptography.IsDigest(b[:cryptography.DigestSize])
}

func verify(b []byte) (string, error) {
	hash := string(b[:cryptography.DigestSize])
	text := b[BodyOverhead:]
	if !cryptography.VerifyHash(text, hash) {
		return "", fmt.Errorf("%w: hash mismatch", util.ErrIntegrity)
	}
	return checkText(text)
}

func checkText(text []byte) (string, error) {
	if !utf8.Valid(text) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", util.ErrIntegrity)
	}
	return string(text), nil
}

/*
 * Scan finds the frame at the start of stream, which holds everything
 * read from an image. The frame ends right before one of the terminators
 * in stream, though not always the first one: the text, the salt or the
 * ciphertext may hold two zero bytes themselves. Every terminator is
 * tried at constant cost, so the whole scan is linear in the stream
 * length however many zero pairs it contains.
 */
func (p *Parser) Scan(stream []byte) (string, error) {
	if len(stream) < ModeSize {
		return "", fmt.Errorf("%w: empty stream", util.ErrNotFound)
	}
	mode := Mode(stream[0])
	switch {
	case mode == Plain:
		return scanPlain(stream[ModeSize:])
	case mode.Encrypted():
		return p.scanEncrypted(mode, stream[ModeSize:])
	}
	return "", fmt.Errorf("%w: unknown frame mode 0x%02x", util.ErrNotFound, stream[0])
}

// the digest is fed up to each terminator in turn, never twice
func scanPlain(b []byte) (string, error) {
	if !wellFormed(b) {
		return "", fmt.Errorf("%w: malformed plain frame", util.ErrNotFound)
	}
	hash := b[:cryptography.DigestSize]
	d := cryptography.NewDigest()
	pos, found := BodyOverhead, false
	for end := util.IndexTerminator(b, BodyOverhead); end >= 0; end = util.IndexTerminator(b, end+1) {
		found = true
		d.Write(b[pos:end])
		pos = end
		if d.Matches(hash) {
			return checkText(b[BodyOverhead:end])
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no terminator", util.ErrNotFound)
	}
	return "", fmt.Errorf("%w: hash mismatch", util.ErrIntegrity)
}

// the stream is decrypted once. a terminator that does not end a whole
// block is skipped, the others only need their last block unpadded.
func (p *Parser) scanEncrypted(mode Mode, env []byte) (string, error) {
	if len(env) < MinEnvelope {
		return "", fmt.Errorf("%w: malformed encrypted frame", util.ErrNotFound)
	}
	if len(p.password) == 0 {
		return "", ErrPasswordRequired
	}

	salt := env[:cryptography.SaltSize]
	iv := env[cryptography.SaltSize:EnvelopeHeader]
	ct := env[EnvelopeHeader:]
	ct = ct[:len(ct)/cryptography.BlockSize*cryptography.BlockSize]

	key, err := p.key(mode.KDF(), salt)
	if err != nil {
		return "", err
	}
	pt, err := cryptography.DecryptBlocks(ct, key, iv)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrIntegrity, err)
	}

	found := false
	for end := util.IndexTerminator(env, MinEnvelope); end >= 0; end = util.IndexTerminator(env, end+1) {
		n := end - EnvelopeHeader
		if n%cryptography.BlockSize != 0 {
			continue
		}
		found = true
		body, err := cryptography.Unpad(pt[:n])
		if err != nil || !wellFormed(body) {
			continue
		}
		if text, err := verify(body); err == nil {
			return text, nil
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no terminator after a whole block", util.ErrNotFound)
	}
	return "", fmt.Errorf("%w: %v", util.ErrIntegrity, cryptography.ErrDecrypt)
}
