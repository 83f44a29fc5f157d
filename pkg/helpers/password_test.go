package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "supersecret", hash)

	assert.True(t, CompareHashAndPassword(hash, "supersecret"))
	assert.False(t, CompareHashAndPassword(hash, "Supersecret"))
	assert.False(t, CompareHashAndPassword(hash, ""))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("supersecret")
	require.NoError(t, err)
	h2, err := HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCompareWithGarbageHash(t *testing.T) {
	assert.False(t, CompareHashAndPassword("not-a-bcrypt-hash", "supersecret"))
}
