package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/user"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user defaults to member", func(t *testing.T) {
		u, err := user.NewUser("alice", "alice@example.com", "hash")
		require.NoError(t, err)

		assert.False(t, u.ID().IsZero())
		assert.Equal(t, "alice", u.Username())
		assert.Equal(t, "alice@example.com", u.Email())
		assert.Equal(t, user.RoleMember, u.Role())
		assert.False(t, u.Role().IsAdmin())
	})

	t.Run("empty username rejected", func(t *testing.T) {
		_, err := user.NewUser("", "alice@example.com", "hash")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("empty email rejected", func(t *testing.T) {
		_, err := user.NewUser("alice", "", "hash")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("empty password hash rejected", func(t *testing.T) {
		_, err := user.NewUser("alice", "alice@example.com", "")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestParseRole(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		r, err := user.ParseRole("admin")
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, r)
		assert.True(t, r.IsAdmin())
	})

	t.Run("member", func(t *testing.T) {
		r, err := user.ParseRole("member")
		require.NoError(t, err)
		assert.Equal(t, user.RoleMember, r)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := user.ParseRole("moderator")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestUser_SetRole(t *testing.T) {
	u, err := user.NewUser("alice", "alice@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, u.SetRole(user.RoleAdmin))
	assert.True(t, u.Role().IsAdmin())

	require.ErrorIs(t, u.SetRole(user.Role("owner")), errs.ErrInvalidInput)
	assert.Equal(t, user.RoleAdmin, u.Role())
}

func TestUser_SetPasswordHash(t *testing.T) {
	u, err := user.NewUser("alice", "alice@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, u.SetPasswordHash("hash2"))
	assert.Equal(t, "hash2", u.PasswordHash())

	require.ErrorIs(t, u.SetPasswordHash(""), errs.ErrInvalidInput)
	assert.Equal(t, "hash2", u.PasswordHash())
}

func TestUser_Apply(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("merges the set fields", func(t *testing.T) {
		u, err := user.NewUser("alice", "alice@example.com", "hash")
		require.NoError(t, err)

		require.NoError(t, u.Apply(user.Update{Username: strPtr("alice2")}))
		assert.Equal(t, "alice2", u.Username())
		assert.Equal(t, "alice@example.com", u.Email())

		require.NoError(t, u.Apply(user.Update{Email: strPtr("alice2@example.com")}))
		assert.Equal(t, "alice2@example.com", u.Email())
	})

	t.Run("empty update rejected", func(t *testing.T) {
		u, err := user.NewUser("alice", "alice@example.com", "hash")
		require.NoError(t, err)

		require.True(t, user.Update{}.IsEmpty())
		require.ErrorIs(t, u.Apply(user.Update{}), errs.ErrInvalidInput)
	})

	t.Run("empty field value rejected without mutating", func(t *testing.T) {
		u, err := user.NewUser("alice", "alice@example.com", "hash")
		require.NoError(t, err)

		require.ErrorIs(t, u.Apply(user.Update{Username: strPtr("")}), errs.ErrInvalidInput)
		assert.Equal(t, "alice", u.Username())

		require.ErrorIs(t, u.Apply(user.Update{Email: strPtr("")}), errs.ErrInvalidInput)
		assert.Equal(t, "alice@example.com", u.Email())
	})
}
