package tx

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sign tests ---

func TestSign_AssignsSignatureAndID(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("payload")})
	require.NoError(t, err)

	require.NoError(t, rec.Sign(key))
	assert.NotEmpty(t, rec.Signature)
	assert.NotEmpty(t, rec.ID)

	// id = base64url(SHA-256(signature bytes))
	sig, err := base64.RawURLEncoding.DecodeString(rec.Signature)
	require.NoError(t, err)
	want := sha256.Sum256(sig)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(want[:]), rec.ID)
}

func TestSign_Deterministic(t *testing.T) {
	// Same wallet, same record contents (anchor included): signing twice
	// must produce the identical signature and id.
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("payload")})
	require.NoError(t, err)

	require.NoError(t, rec.Sign(key))
	sig1, id1 := rec.Signature, rec.ID

	require.NoError(t, rec.Sign(key))
	assert.Equal(t, sig1, rec.Signature)
	assert.Equal(t, id1, rec.ID)
}

func TestSign_FreshAnchorChangesID(t *testing.T) {
	key := newTestKey(t)
	params := &RecordParams{Owner: ownerOf(key), Data: []byte("identical content")}

	r1, err := NewRecord(params)
	require.NoError(t, err)
	r2, err := NewRecord(params)
	require.NoError(t, err)

	require.NoError(t, r1.Sign(key))
	require.NoError(t, r2.Sign(key))
	assert.NotEqual(t, r1.ID, r2.ID, "each submission is an independent record")
}

func TestSign_OwnerMismatch(t *testing.T) {
	signer := newTestKey(t)
	other := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(other), Data: []byte("x")})
	require.NoError(t, err)

	assert.ErrorIs(t, rec.Sign(signer), ErrOwnerMismatch)
}

func TestSign_NilKey(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("x")})
	require.NoError(t, err)

	assert.ErrorIs(t, rec.Sign(nil), ErrNilParam)
}

// --- Verify tests ---

func TestVerify_RoundTrip(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{
		Owner: ownerOf(key),
		Data:  []byte("verify me"),
		Tags:  []Tag{{Name: TagAppName, Value: "Weavedrop"}},
	})
	require.NoError(t, err)

	require.NoError(t, rec.Sign(key))
	assert.NoError(t, rec.Verify())
}

func TestVerify_Unsigned(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("x")})
	require.NoError(t, err)

	assert.ErrorIs(t, rec.Verify(), ErrNotSigned)
}

func TestVerify_TamperedData(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("original")})
	require.NoError(t, err)
	require.NoError(t, rec.Sign(key))

	rec.Data = []byte("tampered")
	assert.ErrorIs(t, rec.Verify(), ErrBadSignature)
}

func TestVerify_TamperedTag(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{
		Owner: ownerOf(key),
		Data:  []byte("x"),
		Tags:  []Tag{{Name: TagContentType, Value: "text/plain"}},
	})
	require.NoError(t, err)
	require.NoError(t, rec.Sign(key))

	rec.Tags[0].Value = "application/json"
	assert.ErrorIs(t, rec.Verify(), ErrBadSignature)
}

func TestVerify_ForgedID(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("x")})
	require.NoError(t, err)
	require.NoError(t, rec.Sign(key))

	rec.ID = base64.RawURLEncoding.EncodeToString(make([]byte, 32))
	assert.ErrorIs(t, rec.Verify(), ErrBadSignature)
}

// --- Wire format tests ---

func TestEncodeWire_RoundTrip(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{
		Owner: ownerOf(key),
		Data:  []byte{0x00, 0x01, 0x02},
		Tags: []Tag{
			{Name: TagAppName, Value: "Weavedrop"},
			{Name: TagContentType, Value: "application/octet-stream"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, rec.Sign(key))

	wire, err := rec.EncodeWire()
	require.NoError(t, err)

	decoded, err := DecodeWire(wire)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
	assert.NoError(t, decoded.Verify(), "signature must survive the wire round trip")
}

func TestEncodeWire_Unsigned(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("x")})
	require.NoError(t, err)

	_, err = rec.EncodeWire()
	assert.ErrorIs(t, err, ErrNotSigned)
}

func TestEncodeWire_TagOrderStable(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{
		Owner: ownerOf(key),
		Data:  []byte("x"),
		Tags: []Tag{
			{Name: "Z", Value: "last-name-first"},
			{Name: "A", Value: "first-name-last"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, rec.Sign(key))

	wire, err := rec.EncodeWire()
	require.NoError(t, err)

	var raw struct {
		Tags []Tag `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(wire, &raw))
	require.Len(t, raw.Tags, 2)
	assert.Equal(t, "Z", raw.Tags[0].Name, "wire preserves insertion order, not sorted order")
	assert.Equal(t, "A", raw.Tags[1].Name)
}

func TestDecodeWire_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "nope"},
		{"missing owner", `{"format":1,"anchor":"QUFB","data":"","tags":[]}`},
		{"missing anchor", `{"format":1,"owner":"QUFB","data":"","tags":[]}`},
		{"bad data encoding", `{"format":1,"owner":"QUFB","anchor":"QUFB","data":"%%%","tags":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWire([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}
