package tx

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// wireRecord is the JSON form posted to the gateway.
type wireRecord struct {
	Format    int    `json:"format"`
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Anchor    string `json:"anchor"`
	Tags      []Tag  `json:"tags"`
	Data      string `json:"data"`
	Signature string `json:"signature"`
}

// EncodeWire serializes a signed record for submission. Data is carried as
// unpadded base64url; tag names and values stay plain strings.
func (r *Record) EncodeWire() ([]byte, error) {
	if r.Signature == "" || r.ID == "" {
		return nil, ErrNotSigned
	}

	w := wireRecord{
		Format:    r.Format,
		ID:        r.ID,
		Owner:     r.Owner,
		Anchor:    r.Anchor,
		Tags:      r.Tags,
		Data:      base64.RawURLEncoding.EncodeToString(r.Data),
		Signature: r.Signature,
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("tx: encode record: %w", err)
	}
	return data, nil
}

// DecodeWire parses a wire-format record. The result is structurally
// validated; call Verify to check the signature.
func DecodeWire(data []byte) (*Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidRecord, err)
	}

	if w.Owner == "" {
		return nil, fmt.Errorf("%w: missing owner", ErrInvalidRecord)
	}
	if w.Anchor == "" {
		return nil, fmt.Errorf("%w: missing anchor", ErrInvalidRecord)
	}

	payload, err := base64.RawURLEncoding.DecodeString(w.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data is not valid base64url", ErrInvalidRecord)
	}
	if len(payload) > MaxDataSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(payload), MaxDataSize)
	}
	if err := validateTags(w.Tags); err != nil {
		return nil, err
	}

	return &Record{
		Format:    w.Format,
		ID:        w.ID,
		Owner:     w.Owner,
		Anchor:    w.Anchor,
		Tags:      w.Tags,
		Data:      payload,
		Signature: w.Signature,
	}, nil
}
