package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherHashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "secret123", string(hash))

	require.True(t, h.Verify(hash, "secret123"))
	require.False(t, h.Verify(hash, "wrong"))
	require.False(t, h.Verify([]byte("not-a-hash"), "secret123"))
}

func TestHasherSaltsEachHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestNewHasherCost(t *testing.T) {
	t.Parallel()

	require.Equal(t, 12, NewHasher(12).Cost)
	require.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	require.Equal(t, bcrypt.MinCost, NewHasher(2).Cost)
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost)
}
