package frame

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixhide/cryptography"
	"pixhide/stegano/util"
)

func TestPlainFrame(t *testing.T) {
	data, err := Build("hello", "", cryptography.PBKDF2)
	require.NoError(t, err)

	// 0x00 || sha256("hello")[:16 hex] || ':' || "hello"
	assert.Equal(t, "\x002cf24dba5fb0a30e:hello", string(data))
	assert.Equal(t, Len(len("hello"), false), len(data))

	text, err := Parse(data, "")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	// a password on a plain frame is simply not needed
	text, err = Parse(data, "whatever")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestEncryptedFrame(t *testing.T) {
	tests := []struct {
		kdf  cryptography.KDF
		mode Mode
	}{
		{cryptography.PBKDF2, EncryptedPBKDF2},
		{cryptography.Argon2id, EncryptedArgon2id},
	}
	for _, tc := range tests {
		data, err := Build("secret", "p@ss", tc.kdf)
		require.NoError(t, err)
		assert.Equal(t, byte(tc.mode), data[0])
		assert.GreaterOrEqual(t, len(data)-ModeSize, MinEnvelope)
		assert.Equal(t, Len(len("secret"), true), len(data))
		assert.NotContains(t, string(data), "secret")

		text, err := Parse(data, "p@ss")
		require.NoError(t, err, tc.mode.String())
		assert.Equal(t, "secret", text)

		_, err = Parse(data, "wrong")
		assert.ErrorIs(t, err, util.ErrIntegrity, tc.mode.String())

		_, err = Parse(data, "")
		assert.ErrorIs(t, err, ErrPasswordRequired)
		assert.ErrorIs(t, err, util.ErrValidation)
	}
}

func TestFrameLen(t *testing.T) {
	for _, text := range []string{"a", strings.Repeat("b", 14), strings.Repeat("c", 15), strings.Repeat("d", 100), "юникод"} {
		plain, err := Build(text, "", cryptography.PBKDF2)
		require.NoError(t, err)
		assert.Equal(t, len(plain), Len(len(text), false), text)

		enc, err := Build(text, "pw", cryptography.PBKDF2)
		require.NoError(t, err)
		assert.Equal(t, len(enc), Len(len(text), true), text)
	}
}

func TestTamperedPlainFrame(t *testing.T) {
	data, err := Build("hello world", "", cryptography.PBKDF2)
	require.NoError(t, err)

	for i := ModeSize + BodyOverhead; i < len(data); i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte{}, data...)
			tampered[i] ^= 1 << bit
			_, err := Parse(tampered, "")
			assert.ErrorIs(t, err, util.ErrIntegrity, "byte %d bit %d", i, bit)
		}
	}
}

func TestTamperedEncryptedFrame(t *testing.T) {
	data, err := Build("hello world", "pw", cryptography.PBKDF2)
	require.NoError(t, err)

	p := NewParser("pw")
	for i := ModeSize; i < len(data); i++ {
		tampered := append([]byte{}, data...)
		tampered[i] ^= 0x01
		_, err := p.Parse(tampered)
		assert.ErrorIs(t, err, util.ErrIntegrity, "byte %d", i)
	}
}

func TestMalformedFrames(t *testing.T) {
	frames := [][]byte{
		nil,
		{},
		{0x00},
		{0x07, 'a', 'b'},
		[]byte("\x00not a hash at all:text"),
		[]byte("\x002CF24DBA5FB0A30E:hello"),
		[]byte("\x002cf24dba5fb0a30ehello"),
		append([]byte{byte(EncryptedPBKDF2)}, make([]byte, MinEnvelope-1)...),
		append([]byte{byte(EncryptedPBKDF2)}, make([]byte, MinEnvelope+3)...),
	}
	for _, f := range frames {
		_, err := Parse(f, "pw")
		assert.ErrorIs(t, err, util.ErrNotFound, "frame %v", f)
	}
}

func TestParserCachesKeys(t *testing.T) {
	data, err := Build("cached", "pw", cryptography.PBKDF2)
	require.NoError(t, err)

	p := NewParser("pw")
	for i := 0; i < 3; i++ {
		text, err := p.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, "cached", text)
	}
	assert.Len(t, p.keys, 1)
}

func TestBuildUnknownKDF(t *testing.T) {
	_, err := Build("text", "pw", cryptography.KDF(42))
	assert.ErrorIs(t, err, util.ErrConfig)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "encrypted/argon2id", EncryptedArgon2id.String())
	assert.Equal(t, "mode(0x09)", Mode(9).String())
	assert.False(t, Plain.Encrypted())
	assert.Equal(t, cryptography.Argon2id, EncryptedArgon2id.KDF())
}

// stream is what an image gives back: the frame, the terminator and
// whatever the cover held after it.
func stream(frame []byte, tail ...byte) []byte {
	res := append([]byte{}, frame...)
	res = append(res, make([]byte, util.TerminatorBytes)...)
	return append(res, tail...)
}

func TestScanPlainZeroPairs(t *testing.T) {
	texts := []string{
		"no zeros",
		"a" + strings.Repeat("\x00", 70),
		"x" + strings.Repeat("\x00", 5000) + "y",
		strings.Repeat("ab\x00\x00", 300),
	}
	for _, text := range texts {
		data, err := Build(text, "", cryptography.PBKDF2)
		require.NoError(t, err)

		got, err := NewParser("").Scan(stream(data, 'j', 0, 0, 'k', 0, 0, 0))
		require.NoError(t, err, "%d byte text", len(text))
		assert.Equal(t, text, got)
	}
}

func TestScanEncrypted(t *testing.T) {
	data, err := Build("under lock", "pw", cryptography.Argon2id)
	require.NoError(t, err)
	junk, _ := cryptography.GenRandom(100)
	s := stream(data, junk...)

	text, err := NewParser("pw").Scan(s)
	require.NoError(t, err)
	assert.Equal(t, "under lock", text)

	_, err = NewParser("wrong").Scan(s)
	assert.ErrorIs(t, err, util.ErrIntegrity)
	_, err = NewParser("").Scan(s)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	// flip a ciphertext bit
	s[ModeSize+EnvelopeHeader+2] ^= 0x40
	_, err = NewParser("pw").Scan(s)
	assert.ErrorIs(t, err, util.ErrIntegrity)
}

func TestScanZeroSalt(t *testing.T) {
	// a salt of zeros puts fifteen terminators in front of the real one
	salt := make([]byte, cryptography.SaltSize)
	key, err := cryptography.DeriveKey(cryptography.PBKDF2, []byte("pw"), salt)
	require.NoError(t, err)
	iv, ct, err := cryptography.Encrypt(body("zero salt"), key)
	require.NoError(t, err)

	data := append([]byte{byte(EncryptedPBKDF2)}, salt...)
	data = append(append(data, iv...), ct...)

	_, err = Parse(data[:1], "pw")
	assert.ErrorIs(t, err, util.ErrNotFound, "the first terminator cuts the frame short")

	p := NewParser("pw")
	text, err := p.Scan(stream(data))
	require.NoError(t, err)
	assert.Equal(t, "zero salt", text)
	assert.Len(t, p.keys, 1)
}

func TestScanNotFound(t *testing.T) {
	plain, err := Build("hello", "", cryptography.PBKDF2)
	require.NoError(t, err)

	streams := [][]byte{
		nil,
		{0x42, 'a', 0, 0},
		make([]byte, 64),
		plain,
		append([]byte{byte(EncryptedPBKDF2)}, make([]byte, MinEnvelope-1)...),
	}
	for _, s := range streams {
		_, err := NewParser("pw").Scan(s)
		assert.ErrorIs(t, err, util.ErrNotFound, "stream %v", s)
	}
}
