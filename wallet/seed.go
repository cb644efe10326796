package wallet

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/crypto/hkdf"
)

// mnemonicEntropyBits selects a 24-word BIP39 phrase.
const mnemonicEntropyBits = 256

// hkdfInfo versions the seed-to-key derivation. Changing it changes every
// derived key, so it must stay fixed.
const hkdfInfo = "weavedrop/wallet-key/v1"

// primeCertainty is the number of Miller-Rabin rounds used during the
// deterministic prime search.
const primeCertainty = 30

// NewMnemonic generates a fresh 24-word BIP39 mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("wallet: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether mnemonic is a valid BIP39 phrase.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// GenerateFromMnemonic creates a new wallet together with the mnemonic it
// was derived from. The mnemonic is the complete backup: Restore with the
// same phrase reproduces the identical key.
func GenerateFromMnemonic(bits int) (*Wallet, error) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		return nil, err
	}
	return Restore(mnemonic, bits)
}

// Restore deterministically rebuilds a wallet from its BIP39 mnemonic.
// bits <= 0 selects DefaultBits and must match the size the wallet was
// originally derived with.
func Restore(mnemonic string, bits int) (*Wallet, error) {
	if bits <= 0 {
		bits = DefaultBits
	}
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("wallet: derive seed: %w", err)
	}

	key, err := keyFromSeed(seed, bits)
	if err != nil {
		return nil, err
	}
	return &Wallet{Key: key, Mnemonic: mnemonic}, nil
}

// keyFromSeed builds an RSA private key from a deterministic byte stream
// expanded out of seed with HKDF-SHA256.
//
// The stdlib rsa.GenerateKey deliberately consumes its random source in a
// scheduling-dependent way, so the primes are searched here directly: read
// candidates off the stream, force the top two bits and oddness, and keep
// the first probable primes compatible with the public exponent. The same
// seed always yields the same key.
func keyFromSeed(seed []byte, bits int) (*rsa.PrivateKey, error) {
	stream := newSeedStream(seed)
	e := big.NewInt(rsaPublicExponent)

	p, err := primeFromStream(stream, bits/2, e)
	if err != nil {
		return nil, err
	}
	q, err := primeFromStream(stream, bits/2, e)
	if err != nil {
		return nil, err
	}
	for p.Cmp(q) == 0 {
		if q, err = primeFromStream(stream, bits/2, e); err != nil {
			return nil, err
		}
	}

	one := big.NewInt(1)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
	d := new(big.Int).ModInverse(e, phi)
	if d == nil {
		return nil, fmt.Errorf("wallet: seed derivation produced no modular inverse")
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: new(big.Int).Mul(p, q), E: rsaPublicExponent},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	key.Precompute()
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("wallet: derived key invalid: %w", err)
	}
	return key, nil
}

// seedSegmentSize is how many bytes one HKDF-Expand invocation supplies,
// kept under the 255-hash-length expand cap (RFC 5869).
const seedSegmentSize = 4096

// seedStream is an unbounded deterministic byte stream over a seed. A
// single HKDF-Expand yields at most 255 hash lengths (8160 bytes for
// SHA-256), nowhere near enough for a prime search, so the stream re-keys
// per segment with a counter appended to the info string. Same seed, same
// bytes, forever.
type seedStream struct {
	prk     []byte
	counter uint32
	segment io.Reader
	left    int
}

func newSeedStream(seed []byte) *seedStream {
	return &seedStream{prk: hkdf.Extract(sha256.New, seed, nil)}
}

func (s *seedStream) Read(p []byte) (int, error) {
	if s.left == 0 {
		info := make([]byte, 0, len(hkdfInfo)+4)
		info = append(info, hkdfInfo...)
		info = binary.BigEndian.AppendUint32(info, s.counter)
		s.counter++
		s.segment = hkdf.Expand(sha256.New, s.prk, info)
		s.left = seedSegmentSize
	}
	if len(p) > s.left {
		p = p[:s.left]
	}
	n, err := s.segment.Read(p)
	s.left -= n
	return n, err
}

// primeFromStream reads candidates from stream until it finds a probable
// prime of the requested bit length whose p-1 is coprime to e.
func primeFromStream(stream io.Reader, bits int, e *big.Int) (*big.Int, error) {
	if bits < 64 || bits%8 != 0 {
		return nil, fmt.Errorf("wallet: unsupported prime size %d bits", bits)
	}

	buf := make([]byte, bits/8)
	one := big.NewInt(1)
	gcd := new(big.Int)
	pm1 := new(big.Int)

	for {
		if _, err := io.ReadFull(stream, buf); err != nil {
			return nil, fmt.Errorf("wallet: seed stream exhausted: %w", err)
		}
		// Force the two top bits so p*q reaches the full modulus size,
		// and the low bit so the candidate is odd.
		buf[0] |= 0xC0
		buf[len(buf)-1] |= 0x01

		cand := new(big.Int).SetBytes(buf)
		if !cand.ProbablyPrime(primeCertainty) {
			continue
		}
		pm1.Sub(cand, one)
		if gcd.GCD(nil, nil, e, pm1).Cmp(one) != 0 {
			continue
		}
		return cand, nil
	}
}
