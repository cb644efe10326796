// Package wallet implements the RSA keypair that identifies the uploader
// and signs every storage record.
//
// A wallet is created at most once per deployment and persisted as a JWK
// JSON file. If persistence fails the process continues with an in-memory
// wallet: uploads still work, but the identity is lost on restart.
package wallet

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBits is the RSA modulus size of a newly generated wallet.
const DefaultBits = 4096

// rsaPublicExponent is the public exponent every wallet key uses; records
// carry only the modulus on the wire.
const rsaPublicExponent = 65537

// Wallet holds the deployment's signing keypair.
type Wallet struct {
	// Key is the RSA private key. The public modulus is the wallet's
	// on-network identity.
	Key *rsa.PrivateKey

	// InMemory is true when the wallet could not be persisted and exists
	// only for the lifetime of this process.
	InMemory bool

	// Mnemonic is the BIP39 phrase the key was derived from, empty for
	// wallets generated from raw entropy. Persisted alongside the key so
	// it can be shown again for backup.
	Mnemonic string
}

// Generate creates a fresh random wallet. bits <= 0 selects DefaultBits.
func Generate(bits int) (*Wallet, error) {
	if bits <= 0 {
		bits = DefaultBits
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	return &Wallet{Key: key}, nil
}

// Owner returns the wallet's wire identity: the unpadded base64url
// encoding of the public modulus.
func (w *Wallet) Owner() string {
	return base64.RawURLEncoding.EncodeToString(w.Key.PublicKey.N.Bytes())
}

// Address returns the short display identity:
// base64url(SHA-256(modulus bytes)).
func (w *Wallet) Address() string {
	sum := sha256.Sum256(w.Key.PublicKey.N.Bytes())
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Load reads a wallet from a JWK JSON file.
func Load(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, path)
		}
		return nil, fmt.Errorf("wallet: read %s: %w", path, err)
	}

	key, mnemonic, err := parseJWK(data)
	if err != nil {
		return nil, err
	}
	return &Wallet{Key: key, Mnemonic: mnemonic}, nil
}

// Save persists the wallet as a JWK JSON file, creating the parent
// directory as needed. The file is written 0600: it contains the private
// key and, if present, the mnemonic.
func (w *Wallet) Save(path string) error {
	data, err := marshalJWK(w.Key, w.Mnemonic)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	return nil
}

// LoadOrCreate loads the wallet at path, generating and persisting a new
// one if none exists. A save failure is not fatal: the returned wallet is
// marked InMemory and the deployment runs in degraded, stateless mode.
func LoadOrCreate(path string, bits int) (*Wallet, error) {
	w, err := Load(path)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	w, err = Generate(bits)
	if err != nil {
		return nil, err
	}
	if err := w.Save(path); err != nil {
		w.InMemory = true
	}
	return w, nil
}
