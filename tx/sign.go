package tx

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// rsaPublicExponent is the public exponent every wallet key uses. Owners
// carry only the modulus on the wire.
const rsaPublicExponent = 65537

// SigningPayload computes the digest a record signature commits to.
//
// Structure:
//
//	list[ "record", format, owner, anchor, list[ list[name, value]... ], data ]
//
// hashed with DeepHash and reduced to SHA-256 for the RSA signature.
func (r *Record) SigningPayload() ([]byte, error) {
	owner, err := base64.RawURLEncoding.DecodeString(r.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: owner is not valid base64url", ErrInvalidRecord)
	}
	anchor, err := base64.RawURLEncoding.DecodeString(r.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: anchor is not valid base64url", ErrInvalidRecord)
	}

	tagItems := make([]Item, len(r.Tags))
	for i, t := range r.Tags {
		tagItems[i] = List(Blob([]byte(t.Name)), Blob([]byte(t.Value)))
	}

	deep := DeepHash(List(
		Blob([]byte("record")),
		Blob([]byte(fmt.Sprintf("%d", r.Format))),
		Blob(owner),
		Blob(anchor),
		List(tagItems...),
		Blob(r.Data),
	))

	digest := sha256.Sum256(deep[:])
	return digest[:], nil
}

// Sign signs the record and assigns its id.
//
// The signature is RSA PKCS#1 v1.5 over the signing payload, which is
// deterministic for a given key and record contents; freshness across
// submissions comes from the anchor, not the signature scheme. The id is
// base64url(SHA-256(signature)), matching how the network addresses the
// record.
func (r *Record) Sign(key *rsa.PrivateKey) error {
	if key == nil {
		return fmt.Errorf("%w: private key", ErrNilParam)
	}
	if got := base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()); got != r.Owner {
		return ErrOwnerMismatch
	}

	digest, err := r.SigningPayload()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	sig, err := rsa.SignPKCS1v15(nil, key, crypto.SHA256, digest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	r.Signature = base64.RawURLEncoding.EncodeToString(sig)
	id := sha256.Sum256(sig)
	r.ID = base64.RawURLEncoding.EncodeToString(id[:])
	return nil
}

// Verify checks the record signature against its owner and confirms the id
// matches the signature hash.
func (r *Record) Verify() error {
	if r.Signature == "" || r.ID == "" {
		return ErrNotSigned
	}

	sig, err := base64.RawURLEncoding.DecodeString(r.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not valid base64url", ErrInvalidRecord)
	}

	id := sha256.Sum256(sig)
	if base64.RawURLEncoding.EncodeToString(id[:]) != r.ID {
		return fmt.Errorf("%w: id does not match signature hash", ErrBadSignature)
	}

	pub, err := OwnerPublicKey(r.Owner)
	if err != nil {
		return err
	}

	digest, err := r.SigningPayload()
	if err != nil {
		return err
	}

	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest, sig); err != nil {
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	return nil
}

// OwnerPublicKey reconstructs the RSA public key from a wire owner field.
func OwnerPublicKey(owner string) (*rsa.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(owner)
	if err != nil {
		return nil, fmt.Errorf("%w: owner is not valid base64url", ErrInvalidRecord)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty owner", ErrInvalidRecord)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(raw),
		E: rsaPublicExponent,
	}, nil
}
