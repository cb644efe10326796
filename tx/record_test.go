package tx

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helper functions ---

// newTestKey generates a small RSA key. Production wallets are 4096-bit;
// 2048 keeps the tests fast and exercises the same code paths.
func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func ownerOf(key *rsa.PrivateKey) string {
	return base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes())
}

// --- NewRecord tests ---

func TestNewRecord(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{
		Owner: ownerOf(key),
		Data:  []byte("hello"),
		Tags: []Tag{
			{Name: TagAppName, Value: "Weavedrop"},
			{Name: TagContentType, Value: "text/plain"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, RecordFormat, rec.Format)
	assert.Empty(t, rec.ID, "id is assigned by Sign")
	assert.Empty(t, rec.Signature)
	assert.Equal(t, []byte("hello"), rec.Data)

	anchor, err := base64.RawURLEncoding.DecodeString(rec.Anchor)
	require.NoError(t, err)
	assert.Len(t, anchor, AnchorLen)
}

func TestNewRecord_FreshAnchorPerCall(t *testing.T) {
	key := newTestKey(t)
	params := &RecordParams{Owner: ownerOf(key), Data: []byte("same")}

	r1, err := NewRecord(params)
	require.NoError(t, err)
	r2, err := NewRecord(params)
	require.NoError(t, err)

	assert.NotEqual(t, r1.Anchor, r2.Anchor, "identical content must still get distinct anchors")
}

func TestNewRecord_CopiesTags(t *testing.T) {
	key := newTestKey(t)
	tags := []Tag{{Name: "A", Value: "1"}}
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key), Data: []byte("x"), Tags: tags})
	require.NoError(t, err)

	tags[0].Value = "mutated"
	assert.Equal(t, "1", rec.Tags[0].Value, "record must not alias the caller's tag slice")
}

func TestNewRecord_Validation(t *testing.T) {
	key := newTestKey(t)
	owner := ownerOf(key)

	tests := []struct {
		name    string
		params  *RecordParams
		wantErr error
	}{
		{"nil params", nil, ErrNilParam},
		{"empty owner", &RecordParams{Data: []byte("x")}, ErrNilParam},
		{
			"payload too large",
			&RecordParams{Owner: owner, Data: make([]byte, MaxDataSize+1)},
			ErrPayloadTooLarge,
		},
		{
			"too many tags",
			&RecordParams{Owner: owner, Data: []byte("x"), Tags: make([]Tag, MaxTagCount+1)},
			ErrInvalidTag,
		},
		{
			"empty tag name",
			&RecordParams{Owner: owner, Data: []byte("x"), Tags: []Tag{{Name: "", Value: "v"}}},
			ErrInvalidTag,
		},
		{
			"tag name too long",
			&RecordParams{Owner: owner, Data: []byte("x"), Tags: []Tag{{Name: strings.Repeat("n", MaxTagNameLen+1), Value: "v"}}},
			ErrInvalidTag,
		},
		{
			"tag value too long",
			&RecordParams{Owner: owner, Data: []byte("x"), Tags: []Tag{{Name: "n", Value: strings.Repeat("v", MaxTagValueLen+1)}}},
			ErrInvalidTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRecord_EmptyDataAllowed(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{Owner: ownerOf(key)})
	require.NoError(t, err)
	assert.Empty(t, rec.Data)
}

// --- GetTag tests ---

func TestGetTag(t *testing.T) {
	key := newTestKey(t)
	rec, err := NewRecord(&RecordParams{
		Owner: ownerOf(key),
		Data:  []byte("x"),
		Tags: []Tag{
			{Name: TagAppName, Value: "Weavedrop"},
			{Name: "Dup", Value: "first"},
			{Name: "Dup", Value: "second"},
		},
	})
	require.NoError(t, err)

	v, ok := rec.GetTag(TagAppName)
	assert.True(t, ok)
	assert.Equal(t, "Weavedrop", v)

	// Duplicate names are tolerated; the first wins on lookup.
	v, ok = rec.GetTag("Dup")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = rec.GetTag("Absent")
	assert.False(t, ok)
}
