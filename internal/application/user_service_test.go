package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	repo "github.com/memoria-app/memoria/internal/domain/repository"
	"github.com/memoria-app/memoria/internal/infrastructure/inmem"
	"github.com/memoria-app/memoria/pkg/helpers"
)

func newUserService() *UserService {
	store := inmem.NewStore()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewUserService(store.Users(), jwt, nil, nil, nil)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, " Ada ", "  Ada@Example.COM ", "secret123")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, "Ada", u.Name)
	require.NotEmpty(t, u.ID)
	require.NotEqual(t, "secret123", u.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "ADA@example.com", "different1")
	require.ErrorIs(t, err, repo.ErrEmailTaken)
}

func TestLoginIssuesTokens(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	user, pair, err := svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.True(t, pair.AccessTokenExpiry.After(time.Now()))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.UserID, claims.UserID)
	require.NotEmpty(t, claims.SessionID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ada", "ada@example.com", "secret123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)

	newPair, userID, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, userID)
	require.NotEmpty(t, newPair.AccessToken)

	_, _, err = svc.Refresh(ctx, "garbage.token.here")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
