package envelope

import "errors"

var (
	// ErrInvalidKey indicates key material that is not exactly KeySize bytes.
	ErrInvalidKey = errors.New("envelope: key must be 32 bytes")

	// ErrBadKey indicates decryption failed: wrong key or tampered ciphertext.
	ErrBadKey = errors.New("envelope: decryption failed (wrong key or corrupted ciphertext)")

	// ErrMalformedEnvelope indicates the envelope structure is invalid.
	ErrMalformedEnvelope = errors.New("envelope: malformed envelope")

	// ErrUnknownMode indicates an unrecognized encryption mode name.
	ErrUnknownMode = errors.New("envelope: unknown encryption mode")

	// ErrNoDriveKey indicates ModeDrive was requested without a configured
	// drive secret.
	ErrNoDriveKey = errors.New("envelope: drive key not configured")
)
