package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	require.True(t, CompareHashAndPassword(hash, "secret123"))
	require.False(t, CompareHashAndPassword(hash, "wrong"))
}
