package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTokenKey(t *testing.T) {
	k1, err := DeriveTokenKey("machine-a")
	require.NoError(t, err)
	assert.Len(t, k1, 32)

	again, err := DeriveTokenKey("machine-a")
	require.NoError(t, err)
	assert.Equal(t, k1, again)

	k2, err := DeriveTokenKey("machine-b")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := DeriveTokenKey("machine-a")
	require.NoError(t, err)

	plain := []byte(`{"token":"abc123"}`)
	blob, err := Seal(key, plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, blob)

	got, err := Open(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestOpenWrongKey(t *testing.T) {
	key, _ := DeriveTokenKey("machine-a")
	other, _ := DeriveTokenKey("machine-b")

	blob, err := Seal(key, []byte("secret"))
	require.NoError(t, err)

	_, err = Open(other, blob)
	assert.Error(t, err)
}

func TestBadInputs(t *testing.T) {
	_, err := Seal([]byte("short"), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	key, _ := DeriveTokenKey("machine-a")
	_, err = Open(key, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}
