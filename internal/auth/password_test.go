package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	digest, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", digest)
	assert.True(t, h.Verify("pw1", digest))
	assert.False(t, h.Verify("pw2", digest))
	assert.False(t, h.Verify("", digest))
}

func TestBcryptHasher_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same-password", first))
	assert.True(t, h.Verify("same-password", second))
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("pw", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("pw", ""))
}

func TestBcryptHasher_DigestCarriesCost(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost + 1)
	digest, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(string(long))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestBcryptHasher_LongPasswordsSharingPrefixDiffer(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	prefix := strings.Repeat("a", MaxPasswordBytes)

	digest, err := h.Hash(prefix)
	require.NoError(t, err)
	assert.True(t, h.Verify(prefix, digest))
	assert.False(t, h.Verify(prefix+"x", digest))
	assert.False(t, h.Verify(prefix+"y", digest))
}
