package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mode tests ---

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeRandom},
		{"none", ModeNone},
		{"random", ModeRandom},
		{"drive", ModeDrive},
		{"custom", ModeCustom},
		{"RANDOM", ModeRandom},
		{" drive ", ModeDrive},
	}

	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_ZeroValueIsRandom(t *testing.T) {
	// The unset mode must encrypt; plaintext storage is opt-in only.
	var m Mode
	assert.Equal(t, ModeRandom, m)
}

func TestParseMode_Unknown(t *testing.T) {
	_, err := ParseMode("rot13")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "none", ModeNone.String())
	assert.Equal(t, "random", ModeRandom.String())
	assert.Equal(t, "drive", ModeDrive.String())
	assert.Equal(t, "custom", ModeCustom.String())
	assert.Equal(t, "unknown", Mode(99).String())
}

// --- NewRandomKey tests ---

func TestNewRandomKey(t *testing.T) {
	key1, err := NewRandomKey()
	require.NoError(t, err)
	assert.Len(t, key1, KeySize)

	key2, err := NewRandomKey()
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2, "two random keys should differ")
}

// --- ResolveKey tests ---

func TestResolveKey_None(t *testing.T) {
	key, encrypt, err := ResolveKey(ModeNone, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, key)
	assert.False(t, encrypt)
}

func TestResolveKey_Random(t *testing.T) {
	key1, encrypt, err := ResolveKey(ModeRandom, nil, nil)
	require.NoError(t, err)
	assert.True(t, encrypt)
	assert.Len(t, key1, KeySize)

	key2, _, err := ResolveKey(ModeRandom, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2, "each upload gets a fresh key")
}

func TestResolveKey_Drive(t *testing.T) {
	driveKey := make([]byte, KeySize)
	for i := range driveKey {
		driveKey[i] = byte(i)
	}

	key, encrypt, err := ResolveKey(ModeDrive, nil, driveKey)
	require.NoError(t, err)
	assert.True(t, encrypt)
	assert.Equal(t, driveKey, key, "drive mode reuses the deployment key")
}

func TestResolveKey_DriveWithoutKey(t *testing.T) {
	_, _, err := ResolveKey(ModeDrive, nil, nil)
	assert.ErrorIs(t, err, ErrNoDriveKey)
}

func TestResolveKey_Custom(t *testing.T) {
	custom := make([]byte, KeySize)
	key, encrypt, err := ResolveKey(ModeCustom, custom, nil)
	require.NoError(t, err)
	assert.True(t, encrypt)
	assert.Equal(t, custom, key)
}

func TestResolveKey_CustomLengths(t *testing.T) {
	// Exactly 32 bytes or nothing: no truncation, no stretching.
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, _, err := ResolveKey(ModeCustom, make([]byte, n), nil)
		assert.ErrorIs(t, err, ErrInvalidKey, "custom key length %d", n)
	}
}

func TestResolveKey_UnknownMode(t *testing.T) {
	_, _, err := ResolveKey(Mode(42), nil, nil)
	assert.ErrorIs(t, err, ErrUnknownMode)
}
