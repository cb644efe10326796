package sharelink

import "errors"

var (
	// ErrInvalidLink indicates the link is not a share URL.
	ErrInvalidLink = errors.New("sharelink: invalid share link")

	// ErrMissingKey indicates the link carries no #decrypt= fragment.
	ErrMissingKey = errors.New("sharelink: missing decryption key in link")

	// ErrInvalidKeyEncoding indicates the fragment key is not valid
	// percent-encoded base64.
	ErrInvalidKeyEncoding = errors.New("sharelink: invalid key encoding")

	// ErrInvalidKeyLength indicates the decoded key is not exactly 32
	// bytes.
	ErrInvalidKeyLength = errors.New("sharelink: invalid key length")
)
