package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Encrypt encrypts content under key with AES-256-CBC.
//
// Process:
//  1. Draws a fresh 16-byte IV from crypto/rand
//  2. Pads the content to a whole number of blocks (PKCS#7)
//  3. Encrypts with AES-256-CBC
//  4. Wraps ciphertext, IV, and algorithm name into an Envelope
//
// Zero-length content is valid and produces one full padding block.
func Encrypt(content, key []byte) (*Envelope, error) {
	block, err := newBlockCipher(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("envelope: random IV generation failed: %w", err)
	}

	padded := pkcs7Pad(content, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(iv),
		Algorithm:  Algorithm,
	}, nil
}

// Decrypt recovers the plaintext from an envelope.
//
// Structural problems (missing fields, bad base64, wrong IV length, a
// ciphertext that is not a whole number of blocks) fail with
// ErrMalformedEnvelope. A wrong key or tampered ciphertext surfaces as a
// padding failure and fails with ErrBadKey; wrong plaintext is never
// returned silently.
func Decrypt(e *Envelope, key []byte) ([]byte, error) {
	block, err := newBlockCipher(key)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrMalformedEnvelope)
	}
	if e.Algorithm != Algorithm {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedEnvelope, e.Algorithm)
	}

	iv, err := base64.StdEncoding.DecodeString(e.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: iv is not valid base64", ErrMalformedEnvelope)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrMalformedEnvelope, IVSize, len(iv))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(e.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not valid base64", ErrMalformedEnvelope)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a whole number of blocks", ErrMalformedEnvelope, len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

// newBlockCipher validates the key length and constructs the AES block.
func newBlockCipher(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return block, nil
}

// pkcs7Pad appends PKCS#7 padding so len(result) is a multiple of blockSize.
// Empty input yields one full block of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding. Any inconsistency in the padding bytes
// means the key was wrong or the ciphertext was altered, so the caller gets
// ErrBadKey rather than a structural error.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadKey
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, ErrBadKey
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrBadKey
		}
	}
	return data[:len(data)-padLen], nil
}
