package envelope

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Mode selects the key provenance for an upload.
type Mode int

const (
	// ModeRandom generates a fresh key per upload, disclosed only through
	// the share link. It is the zero value on purpose: forgetting to pick
	// a mode must yield an encrypted upload, never a plaintext one.
	ModeRandom Mode = iota

	// ModeNone stores content unencrypted, byte for byte. Always an
	// explicit choice.
	ModeNone

	// ModeDrive reuses the deployment-wide drive key. Recipients who know
	// the deployment secret can decrypt without a link-embedded key, but
	// share links embed it anyway for uniformity.
	ModeDrive

	// ModeCustom uses caller-supplied key material.
	ModeCustom
)

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeRandom:
		return "random"
	case ModeDrive:
		return "drive"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to its Mode. The empty string means the
// default, ModeRandom.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ModeRandom, nil
	case "none":
		return ModeNone, nil
	case "random":
		return ModeRandom, nil
	case "drive":
		return ModeDrive, nil
	case "custom":
		return ModeCustom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// NewRandomKey returns KeySize fresh bytes from crypto/rand.
func NewRandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("envelope: random key generation failed: %w", err)
	}
	return key, nil
}

// ResolveKey applies the key policy for one upload and reports whether the
// content should be encrypted.
//
// Pure apart from drawing entropy in ModeRandom: no I/O, no retries.
// Custom keys must already be exactly KeySize bytes; anything else is
// rejected with ErrInvalidKey, never truncated or stretched.
func ResolveKey(mode Mode, custom, driveKey []byte) ([]byte, bool, error) {
	switch mode {
	case ModeNone:
		return nil, false, nil

	case ModeRandom:
		key, err := NewRandomKey()
		if err != nil {
			return nil, false, err
		}
		return key, true, nil

	case ModeDrive:
		if len(driveKey) == 0 {
			return nil, false, ErrNoDriveKey
		}
		if len(driveKey) != KeySize {
			return nil, false, fmt.Errorf("%w: drive key is %d bytes", ErrInvalidKey, len(driveKey))
		}
		return driveKey, true, nil

	case ModeCustom:
		if len(custom) != KeySize {
			return nil, false, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(custom))
		}
		return custom, true, nil

	default:
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
}
