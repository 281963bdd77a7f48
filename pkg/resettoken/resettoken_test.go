package resettoken_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/jhoicas/tours-api/pkg/resettoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint_FormatoYEntropia(t *testing.T) {
	plain, digest, err := resettoken.Mint()
	require.NoError(t, err)

	// 32 bytes -> 64 caracteres hex
	assert.Len(t, plain, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, plain, digest, "el digest nunca debe ser el token plano")

	_, err = hex.DecodeString(plain)
	assert.NoError(t, err)
}

func TestMint_TokensDistintos(t *testing.T) {
	p1, _, err := resettoken.Mint()
	require.NoError(t, err)
	p2, _, err := resettoken.Mint()
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestDigest_EsSHA256Determinista(t *testing.T) {
	sum := sha256.Sum256([]byte("un-token"))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, resettoken.Digest("un-token"))
	assert.Equal(t, resettoken.Digest("un-token"), resettoken.Digest("un-token"))
}

func TestMatches(t *testing.T) {
	plain, digest, err := resettoken.Mint()
	require.NoError(t, err)

	assert.True(t, resettoken.Matches(plain, digest))
	assert.False(t, resettoken.Matches("token-equivocado", digest))
	assert.False(t, resettoken.Matches(plain, resettoken.Digest("otro")))
}
