package wallet

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// jwk is the persisted wallet file format: an RFC 7517 RSA private key in
// JSON Web Key form, all integers unpadded base64url big-endian, plus an
// optional mnemonic for keys derived from a BIP39 phrase.
type jwk struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	D   string `json:"d"`
	P   string `json:"p"`
	Q   string `json:"q"`
	DP  string `json:"dp"`
	DQ  string `json:"dq"`
	QI  string `json:"qi"`

	Mnemonic string `json:"mnemonic,omitempty"`
}

// marshalJWK serializes an RSA private key (and optional mnemonic) to the
// wallet file format.
func marshalJWK(key *rsa.PrivateKey, mnemonic string) ([]byte, error) {
	if key == nil || len(key.Primes) < 2 {
		return nil, fmt.Errorf("%w: incomplete private key", ErrInvalidWalletFile)
	}

	key.Precompute()
	w := jwk{
		Kty:      "RSA",
		N:        b64Int(key.PublicKey.N),
		E:        b64Int(big.NewInt(int64(key.PublicKey.E))),
		D:        b64Int(key.D),
		P:        b64Int(key.Primes[0]),
		Q:        b64Int(key.Primes[1]),
		DP:       b64Int(key.Precomputed.Dp),
		DQ:       b64Int(key.Precomputed.Dq),
		QI:       b64Int(key.Precomputed.Qinv),
		Mnemonic: mnemonic,
	}

	data, err := json.MarshalIndent(&w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("wallet: marshal key: %w", err)
	}
	return data, nil
}

// parseJWK deserializes and validates a wallet file.
func parseJWK(data []byte) (*rsa.PrivateKey, string, error) {
	var w jwk
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, "", fmt.Errorf("%w: invalid JSON: %v", ErrInvalidWalletFile, err)
	}
	if w.Kty != "RSA" {
		return nil, "", fmt.Errorf("%w: unsupported key type %q", ErrInvalidWalletFile, w.Kty)
	}

	n, err := intField("n", w.N)
	if err != nil {
		return nil, "", err
	}
	e, err := intField("e", w.E)
	if err != nil {
		return nil, "", err
	}
	d, err := intField("d", w.D)
	if err != nil {
		return nil, "", err
	}
	p, err := intField("p", w.P)
	if err != nil {
		return nil, "", err
	}
	q, err := intField("q", w.Q)
	if err != nil {
		return nil, "", err
	}

	if !e.IsInt64() {
		return nil, "", fmt.Errorf("%w: public exponent out of range", ErrInvalidWalletFile)
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	key.Precompute()
	if err := key.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidWalletFile, err)
	}

	return key, w.Mnemonic, nil
}

// b64Int encodes a big integer as unpadded base64url of its big-endian bytes.
func b64Int(v *big.Int) string {
	return base64.RawURLEncoding.EncodeToString(v.Bytes())
}

// intField decodes one base64url integer field of the wallet file.
func intField(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: missing field %q", ErrInvalidWalletFile, name)
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q is not valid base64url", ErrInvalidWalletFile, name)
	}
	return new(big.Int).SetBytes(raw), nil
}
