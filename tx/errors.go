package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil or empty.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrPayloadTooLarge indicates the payload exceeds MaxDataSize.
	ErrPayloadTooLarge = errors.New("tx: payload exceeds maximum size")

	// ErrInvalidTag indicates a tag violates the name/value limits.
	ErrInvalidTag = errors.New("tx: invalid tag")

	// ErrSigningFailed indicates record signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrNotSigned indicates an operation that requires a signed record
	// was called on an unsigned one.
	ErrNotSigned = errors.New("tx: record is not signed")

	// ErrBadSignature indicates signature or id verification failed.
	ErrBadSignature = errors.New("tx: signature verification failed")

	// ErrOwnerMismatch indicates the signing key does not match the
	// record owner.
	ErrOwnerMismatch = errors.New("tx: owner does not match signing key")

	// ErrInvalidRecord indicates a wire record is malformed.
	ErrInvalidRecord = errors.New("tx: invalid record")
)
