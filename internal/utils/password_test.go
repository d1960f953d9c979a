package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, CheckPasswordHash("hunter22", hash))
	require.False(t, CheckPasswordHash("hunter23", hash))
	require.False(t, CheckPasswordHash("hunter22", "not-a-bcrypt-hash"))
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("token-1")
	b := HashToken("token-1")
	c := HashToken("token-2")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.NotContains(t, a, "token-1")
}
