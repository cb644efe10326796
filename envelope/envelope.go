// Package envelope implements the symmetric encryption envelope applied to
// content before it leaves the trust boundary, and the key policy that
// decides which key an upload uses.
//
// An envelope is self-describing JSON: ciphertext and IV in standard base64
// plus the algorithm name, so a decryptor needs no out-of-band knowledge.
// The IV is drawn fresh from a cryptographically secure source for every
// encryption and is never reused, even for identical content and key.
package envelope

import (
	"crypto/aes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	// Algorithm is the cipher suite name recorded in every envelope.
	Algorithm = "aes-256-cbc"

	// KeySize is the required symmetric key length in bytes.
	KeySize = 32

	// IVSize is the CBC initialization vector length in bytes.
	IVSize = aes.BlockSize
)

// Envelope is the serialized form of an encrypted payload.
type Envelope struct {
	// Ciphertext is the CBC ciphertext, standard base64.
	Ciphertext string `json:"ciphertext"`

	// IV is the 16-byte initialization vector, standard base64.
	IV string `json:"iv"`

	// Algorithm names the cipher suite, always "aes-256-cbc".
	Algorithm string `json:"algorithm"`
}

// Marshal serializes the envelope as canonical JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal: %w", err)
	}
	return data, nil
}

// Parse deserializes and structurally validates an envelope.
//
// It checks that all three fields are present, that the algorithm is
// supported, and that ciphertext and IV decode as base64 with the IV
// exactly IVSize bytes. Cryptographic validity is only established later
// by Decrypt.
func Parse(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedEnvelope, err)
	}

	if e.Ciphertext == "" || e.IV == "" || e.Algorithm == "" {
		return nil, fmt.Errorf("%w: missing field", ErrMalformedEnvelope)
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

	if _, err := base64.StdEncoding.DecodeString(e.Ciphertext); err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not valid base64", ErrMalformedEnvelope)
	}

	return &e, nil
}
