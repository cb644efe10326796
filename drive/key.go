package drive

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/weavedrop/weavedrop-go/envelope"
)

// keyInfo versions the drive key derivation. Changing it would orphan every
// previously encrypted drive-mode upload.
const keyInfo = "weavedrop/drive-key/v1"

// DeriveKey expands the deployment's drive secret into the 32-byte drive
// encryption key with HKDF-SHA256. The key is derived once at startup and
// is read-only afterwards, so it is safe to share across concurrent
// uploads.
func DeriveKey(secret string) ([]byte, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}

	key := make([]byte, envelope.KeySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("drive: derive key: %w", err)
	}
	return key, nil
}
