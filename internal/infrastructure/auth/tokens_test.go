package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/infrastructure/auth"
)

func newManager(t *testing.T, cfg auth.TokenManagerConfig) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager(cfg)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager(t *testing.T) {
	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := auth.NewTokenManager(auth.TokenManagerConfig{TTL: time.Hour})
		require.Error(t, err)
	})

	t.Run("non-positive ttl rejected", func(t *testing.T) {
		_, err := auth.NewTokenManager(auth.TokenManagerConfig{Secret: "s3cret"})
		require.Error(t, err)
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newManager(t, auth.TokenManagerConfig{Secret: "s3cret", TTL: time.Hour})
	userID := uuid.NewUUID()

	token, err := m.Issue(userID, user.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestTokenManager_Issue(t *testing.T) {
	m := newManager(t, auth.TokenManagerConfig{Secret: "s3cret", TTL: time.Hour})

	t.Run("zero user ID rejected", func(t *testing.T) {
		_, err := m.Issue(uuid.UUID(""), user.RoleMember)
		require.Error(t, err)
	})
}

func TestTokenManager_ValidateToken(t *testing.T) {
	m := newManager(t, auth.TokenManagerConfig{Secret: "s3cret", TTL: time.Hour})

	t.Run("garbage token is invalid", func(t *testing.T) {
		_, err := m.ValidateToken(context.Background(), "not.a.token")
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("token signed with another secret is invalid", func(t *testing.T) {
		other := newManager(t, auth.TokenManagerConfig{Secret: "other", TTL: time.Hour})
		token, err := other.Issue(uuid.NewUUID(), user.RoleMember)
		require.NoError(t, err)

		_, err = m.ValidateToken(context.Background(), token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token surfaces as expired", func(t *testing.T) {
		short := newManager(t, auth.TokenManagerConfig{Secret: "s3cret", TTL: time.Millisecond})
		token, err := short.Issue(uuid.NewUUID(), user.RoleMember)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, err = short.ValidateToken(context.Background(), token)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("leeway tolerates a just-expired token", func(t *testing.T) {
		lenient := newManager(t, auth.TokenManagerConfig{
			Secret: "s3cret",
			TTL:    time.Millisecond,
			Leeway: time.Hour,
		})
		token, err := lenient.Issue(uuid.NewUUID(), user.RoleMember)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, err = lenient.ValidateToken(context.Background(), token)
		require.NoError(t, err)
	})
}
