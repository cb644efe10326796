package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helper functions ---

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := NewRandomKey()
	require.NoError(t, err)
	require.Len(t, key, KeySize)
	return key
}

// --- Encrypt tests ---

func TestEncrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty input", []byte{}},
		{"short text", []byte("hello weavedrop")},
		{"binary data", []byte{0x00, 0x01, 0xff, 0xfe}},
		{"exact block", bytes.Repeat([]byte{0xab}, 16)},
		{"block boundary minus one", bytes.Repeat([]byte{0xcd}, 15)},
		{"block boundary plus one", bytes.Repeat([]byte{0xef}, 17)},
		{"large input", bytes.Repeat([]byte("weave"), 64*1024)},
	}

	key := testKey(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Encrypt(tt.content, key)
			require.NoError(t, err)
			assert.Equal(t, Algorithm, env.Algorithm)

			plaintext, err := Decrypt(env, key)
			require.NoError(t, err)
			assert.Equal(t, tt.content, plaintext)
		})
	}
}

func TestEncrypt_EmptyContentProducesPaddedCiphertext(t *testing.T) {
	env, err := Encrypt(nil, testKey(t))
	require.NoError(t, err)

	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	require.NoError(t, err)
	// Zero-length content still occupies one full padding block.
	assert.Len(t, ciphertext, 16)
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	key := testKey(t)
	content := []byte("same content, same key")

	env1, err := Encrypt(content, key)
	require.NoError(t, err)
	env2, err := Encrypt(content, key)
	require.NoError(t, err)

	assert.NotEqual(t, env1.IV, env2.IV, "IV must be fresh per encryption")
	assert.NotEqual(t, env1.Ciphertext, env2.Ciphertext, "fresh IV should change the ciphertext")
}

func TestEncrypt_IVLength(t *testing.T) {
	env, err := Encrypt([]byte("x"), testKey(t))
	require.NoError(t, err)

	iv, err := base64.StdEncoding.DecodeString(env.IV)
	require.NoError(t, err)
	assert.Len(t, iv, IVSize)
}

func TestEncrypt_KeyLengths(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := Encrypt([]byte("data"), make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidKey, "key length %d should be rejected", n)
	}
}

// --- Decrypt tests ---

func TestDecrypt_WrongKey(t *testing.T) {
	env, err := Encrypt([]byte("secret payload"), testKey(t))
	require.NoError(t, err)

	_, err = Decrypt(env, testKey(t))
	assert.ErrorIs(t, err, ErrBadKey)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key := testKey(t)
	env, err := Encrypt([]byte("tamper target"), key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	require.NoError(t, err)

	// Flip one bit in every byte position; decryption must fail or the
	// padding check must catch it. Wrong plaintext must never come back
	// silently.
	for i := range raw {
		tampered := bytes.Clone(raw)
		tampered[i] ^= 0x01
		env2 := &Envelope{
			Ciphertext: base64.StdEncoding.EncodeToString(tampered),
			IV:         env.IV,
			Algorithm:  env.Algorithm,
		}
		plaintext, err := Decrypt(env2, key)
		if err == nil {
			assert.NotEqual(t, []byte("tamper target"), plaintext,
				"bit flip at byte %d silently returned the original plaintext", i)
		} else {
			assert.ErrorIs(t, err, ErrBadKey, "bit flip at byte %d", i)
		}
	}
}

func TestDecrypt_TamperedIV(t *testing.T) {
	key := testKey(t)
	original := []byte("iv integrity")
	env, err := Encrypt(original, key)
	require.NoError(t, err)

	iv, err := base64.StdEncoding.DecodeString(env.IV)
	require.NoError(t, err)
	iv[0] ^= 0x80
	env.IV = base64.StdEncoding.EncodeToString(iv)

	plaintext, err := Decrypt(env, key)
	if err == nil {
		// A flipped IV garbles only the first block; padding may still
		// verify, but the plaintext must differ.
		assert.NotEqual(t, original, plaintext)
	} else {
		assert.ErrorIs(t, err, ErrBadKey)
	}
}

func TestDecrypt_MalformedEnvelope(t *testing.T) {
	key := testKey(t)
	valid, err := Encrypt([]byte("x"), key)
	require.NoError(t, err)

	tests := []struct {
		name string
		env  *Envelope
	}{
		{"nil envelope", nil},
		{"wrong algorithm", &Envelope{Ciphertext: valid.Ciphertext, IV: valid.IV, Algorithm: "aes-256-gcm"}},
		{"bad ciphertext base64", &Envelope{Ciphertext: "!!!not-base64!!!", IV: valid.IV, Algorithm: Algorithm}},
		{"bad iv base64", &Envelope{Ciphertext: valid.Ciphertext, IV: "%%%", Algorithm: Algorithm}},
		{"short iv", &Envelope{Ciphertext: valid.Ciphertext, IV: base64.StdEncoding.EncodeToString(make([]byte, 8)), Algorithm: Algorithm}},
		{"empty ciphertext", &Envelope{Ciphertext: "", IV: valid.IV, Algorithm: Algorithm}},
		{"partial block", &Envelope{Ciphertext: base64.StdEncoding.EncodeToString(make([]byte, 20)), IV: valid.IV, Algorithm: Algorithm}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.env, key)
			assert.ErrorIs(t, err, ErrMalformedEnvelope)
		})
	}
}

// --- Parse tests ---

func TestParse_RoundTrip(t *testing.T) {
	key := testKey(t)
	env, err := Encrypt([]byte("parse me"), key)
	require.NoError(t, err)

	data, err := env.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, env, parsed)

	plaintext, err := Decrypt(parsed, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("parse me"), plaintext)
}

func TestParse_FieldNames(t *testing.T) {
	// The wire field names are part of the format and must not drift.
	env, err := Encrypt([]byte("wire"), testKey(t))
	require.NoError(t, err)

	data, err := env.Marshal()
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "ciphertext")
	assert.Contains(t, fields, "iv")
	assert.Contains(t, fields, "algorithm")
	assert.Equal(t, "aes-256-cbc", fields["algorithm"])
}

func TestParse_Malformed(t *testing.T) {
	validIV := base64.StdEncoding.EncodeToString(make([]byte, IVSize))

	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing iv", `{"ciphertext":"YWJj","algorithm":"aes-256-cbc"}`},
		{"missing algorithm", `{"ciphertext":"YWJj","iv":"` + validIV + `"}`},
		{"unknown algorithm", `{"ciphertext":"YWJj","iv":"` + validIV + `","algorithm":"rot13"}`},
		{"bad iv base64", `{"ciphertext":"YWJj","iv":"***","algorithm":"aes-256-cbc"}`},
		{"bad ciphertext base64", `{"ciphertext":"***","iv":"` + validIV + `","algorithm":"aes-256-cbc"}`},
		{"iv wrong length", `{"ciphertext":"YWJj","iv":"YWJj","algorithm":"aes-256-cbc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedEnvelope)
		})
	}
}
