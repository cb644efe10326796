// Package tx builds the signed, content-addressed records submitted to the
// storage network.
//
// A record packages a payload and its descriptive tags together with the
// uploader's wallet identity, a fresh random anchor, and an RSA signature
// over a deep hash of the whole structure. The record id is derived from
// the signature, so every submission, even of identical content, yields a
// new independent record.
package tx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	// RecordFormat is the wire format version.
	RecordFormat = 1

	// AnchorLen is the length of the random anchor in bytes.
	AnchorLen = 32

	// MaxDataSize caps the payload of a single record. Larger content
	// needs chunking, which this layer does not provide.
	MaxDataSize = 10 << 20

	// MaxTagCount limits the number of tags per record.
	MaxTagCount = 128

	// MaxTagNameLen limits the byte length of a tag name.
	MaxTagNameLen = 1024

	// MaxTagValueLen limits the byte length of a tag value.
	MaxTagValueLen = 3072
)

// Well-known tag names of the drive convention.
const (
	TagAppName        = "App-Name"
	TagContentType    = "Content-Type"
	TagEntityType     = "Entity-Type"
	TagDriveID        = "Drive-Id"
	TagFileID         = "File-Id"
	TagFolderID       = "Folder-Id"
	TagParentFolderID = "Parent-Folder-Id"
	TagFileName       = "File-Name"
	TagUnixTime       = "Unix-Time"
)

// Entity-Type tag values.
const (
	EntityDrive  = "drive"
	EntityFolder = "folder"
	EntityFile   = "file"
)

// Tag is a name/value metadata pair attached to a record. Tags form an
// unordered set and the network tolerates duplicate names, but their order
// is preserved through signing and the wire format so fixtures stay stable.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one immutable storage record.
//
// Owner, Anchor, Signature, and ID hold their wire form (unpadded base64url).
// Data stays raw; the wire encoder converts it.
type Record struct {
	Format    int
	ID        string
	Owner     string
	Anchor    string
	Tags      []Tag
	Data      []byte
	Signature string
}

// RecordParams holds the inputs for building an unsigned record.
type RecordParams struct {
	Owner string // base64url RSA modulus of the signing wallet
	Data  []byte
	Tags  []Tag
}

// NewRecord builds an unsigned record with a fresh random anchor.
//
// The anchor guarantees a distinct signing preimage per call: submitting
// the same payload and tags twice still produces two records with two ids.
func NewRecord(params *RecordParams) (*Record, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params", ErrNilParam)
	}
	if params.Owner == "" {
		return nil, fmt.Errorf("%w: owner", ErrNilParam)
	}
	if len(params.Data) > MaxDataSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(params.Data), MaxDataSize)
	}
	if err := validateTags(params.Tags); err != nil {
		return nil, err
	}

	anchor := make([]byte, AnchorLen)
	if _, err := rand.Read(anchor); err != nil {
		return nil, fmt.Errorf("tx: anchor generation failed: %w", err)
	}

	tags := make([]Tag, len(params.Tags))
	copy(tags, params.Tags)

	return &Record{
		Format: RecordFormat,
		Owner:  params.Owner,
		Anchor: base64.RawURLEncoding.EncodeToString(anchor),
		Tags:   tags,
		Data:   params.Data,
	}, nil
}

// GetTag returns the value of the first tag named name and whether it exists.
func (r *Record) GetTag(name string) (string, bool) {
	for _, t := range r.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// validateTags checks count and per-tag size limits.
func validateTags(tags []Tag) error {
	if len(tags) > MaxTagCount {
		return fmt.Errorf("%w: %d tags exceeds %d", ErrInvalidTag, len(tags), MaxTagCount)
	}
	for i, t := range tags {
		if t.Name == "" {
			return fmt.Errorf("%w: tag %d has empty name", ErrInvalidTag, i)
		}
		if len(t.Name) > MaxTagNameLen {
			return fmt.Errorf("%w: tag %d name exceeds %d bytes", ErrInvalidTag, i, MaxTagNameLen)
		}
		if len(t.Value) > MaxTagValueLen {
			return fmt.Errorf("%w: tag %d value exceeds %d bytes", ErrInvalidTag, i, MaxTagValueLen)
		}
	}
	return nil
}
