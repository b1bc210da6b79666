package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("acc", "ref", time.Hour, 24*time.Hour)

	token, exp, err := m.GenerateAccessToken("user-1", "sid-1")
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "sid-1", claims.SessionID)
}

func TestTokensUseSeparateSecrets(t *testing.T) {
	m := NewJWTManager("acc", "ref", time.Hour, 24*time.Hour)

	access, _, err := m.GenerateAccessToken("user-1", "sid-1")
	require.NoError(t, err)

	// an access token must not validate as a refresh token
	_, err = m.ParseRefreshToken(access)
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("acc", "ref", -time.Minute, 24*time.Hour)

	token, _, err := m.GenerateAccessToken("user-1", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	require.Error(t, err)
}
