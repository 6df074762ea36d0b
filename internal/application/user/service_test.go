package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/lllypuk/agora/internal/application/user"
	"github.com/lllypuk/agora/internal/domain/errs"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/infrastructure/repository/memory"
)

type stubIssuer struct {
	token  string
	lastID uuid.UUID
}

func (s *stubIssuer) Issue(userID uuid.UUID, _ userdomain.Role) (string, error) {
	s.lastID = userID
	return s.token, nil
}

type userFixture struct {
	users  *memory.UserRepository
	cache  *memory.ListingCache
	issuer *stubIssuer
	svc    *userapp.Service
}

func newUserFixture() *userFixture {
	users := memory.NewUserRepository()
	cache := memory.NewListingCache()
	issuer := &stubIssuer{token: "signed-token"}
	return &userFixture{
		users:  users,
		cache:  cache,
		issuer: issuer,
		svc:    userapp.NewService(users, cache, issuer),
	}
}

func (f *userFixture) register(t *testing.T, username, email string) *userdomain.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), userapp.RegisterCommand{
		Username: username,
		Email:    email,
		Password: "correct horse",
	})
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	t.Run("registers a member", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		assert.Equal(t, userdomain.RoleMember, u.Role())
		assert.Equal(t, "alice@example.com", u.Email())
		assert.NotEqual(t, "correct horse", u.PasswordHash())
	})

	t.Run("email is normalized", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "  Alice@Example.COM ")
		assert.Equal(t, "alice@example.com", u.Email())
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newUserFixture()
		f.register(t, "alice", "alice@example.com")

		_, err := f.svc.Register(context.Background(), userapp.RegisterCommand{
			Username: "alice2",
			Email:    "ALICE@example.com",
			Password: "correct horse",
		})
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("short password rejected", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.Register(context.Background(), userapp.RegisterCommand{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "short",
		})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.Register(context.Background(), userapp.RegisterCommand{
			Username: "alice",
			Email:    "not-an-email",
			Password: "correct horse",
		})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("valid credentials issue a token", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		res, err := f.svc.Login(context.Background(), "alice@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, u.ID(), res.User.ID())
		assert.Equal(t, u.ID(), f.issuer.lastID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		f := newUserFixture()
		f.register(t, "alice", "alice@example.com")

		_, err := f.svc.Login(context.Background(), "alice@example.com", "wrong horse")
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("unknown email is unauthorized, not not-found", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.Login(context.Background(), "ghost@example.com", "correct horse")
		require.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.NotErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("empty credentials rejected", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.Login(context.Background(), "", "")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestUserService_Get(t *testing.T) {
	f := newUserFixture()
	u := f.register(t, "alice", "alice@example.com")

	t.Run("existing user", func(t *testing.T) {
		got, err := f.svc.Get(context.Background(), u.ID())
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username())
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		_, err := f.svc.Get(context.Background(), uuid.NewUUID())
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func strPtr(s string) *string { return &s }

func TestUserService_Update(t *testing.T) {
	t.Run("updates profile fields", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		updated, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID:   u.ID(),
			Username: strPtr("alice2"),
			Email:    strPtr("  Alice2@Example.COM "),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Username())
		assert.Equal(t, "alice2@example.com", updated.Email())

		got, err := f.svc.Get(context.Background(), u.ID())
		require.NoError(t, err)
		assert.Equal(t, "alice2", got.Username())
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		updated, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID:   u.ID(),
			Username: strPtr("alice2"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Username())
		assert.Equal(t, "alice@example.com", updated.Email())
	})

	t.Run("email held by another account conflicts", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")
		f.register(t, "bob", "bob@example.com")

		_, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID: u.ID(),
			Email:  strPtr("bob@example.com"),
		})
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("keeping the same email is not a conflict", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		_, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID: u.ID(),
			Email:  strPtr("alice@example.com"),
		})
		require.NoError(t, err)
	})

	t.Run("empty command rejected", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		_, err := f.svc.Update(context.Background(), userapp.UpdateCommand{UserID: u.ID()})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("role change", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		updated, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID: u.ID(),
			Role:   strPtr("admin"),
		})
		require.NoError(t, err)
		assert.Equal(t, userdomain.RoleAdmin, updated.Role())
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		_, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID: u.ID(),
			Role:   strPtr("owner"),
		})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID:   uuid.NewUUID(),
			Username: strPtr("ghost"),
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("update invalidates the cached listing", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		_, err := f.svc.List(context.Background())
		require.NoError(t, err)

		_, err = f.svc.Update(context.Background(), userapp.UpdateCommand{
			UserID:   u.ID(),
			Username: strPtr("alice2"),
		})
		require.NoError(t, err)

		_, err = f.cache.Get(context.Background(), "users:listing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Run("new password replaces the old one", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		err := f.svc.ChangePassword(context.Background(), u.ID(), "correct horse", "battery staple")
		require.NoError(t, err)

		_, err = f.svc.Login(context.Background(), "alice@example.com", "correct horse")
		require.ErrorIs(t, err, errs.ErrUnauthorized)

		res, err := f.svc.Login(context.Background(), "alice@example.com", "battery staple")
		require.NoError(t, err)
		assert.Equal(t, u.ID(), res.User.ID())
	})

	t.Run("wrong current password is invalid input", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		err := f.svc.ChangePassword(context.Background(), u.ID(), "wrong horse", "battery staple")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
		assert.NotErrorIs(t, err, errs.ErrUnauthorized)

		// The old password still works.
		_, err = f.svc.Login(context.Background(), "alice@example.com", "correct horse")
		require.NoError(t, err)
	})

	t.Run("short new password rejected", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		err := f.svc.ChangePassword(context.Background(), u.ID(), "correct horse", "short")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		f := newUserFixture()
		err := f.svc.ChangePassword(context.Background(), uuid.NewUUID(), "correct horse", "battery staple")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("deleted user is gone", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		require.NoError(t, f.svc.Delete(context.Background(), u.ID()))

		_, err := f.svc.Get(context.Background(), u.ID())
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		f := newUserFixture()
		err := f.svc.Delete(context.Background(), uuid.NewUUID())
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("delete invalidates the cached listing", func(t *testing.T) {
		f := newUserFixture()
		u := f.register(t, "alice", "alice@example.com")

		_, err := f.svc.List(context.Background())
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(context.Background(), u.ID()))

		_, err = f.cache.Get(context.Background(), "users:listing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestUserService_List(t *testing.T) {
	t.Run("listing is cached after first read", func(t *testing.T) {
		f := newUserFixture()
		f.register(t, "alice", "alice@example.com")
		f.register(t, "bob", "bob@example.com")

		first, err := f.svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, first, 2)

		// Second read is served from the cache page written above.
		cached, err := f.cache.Get(context.Background(), "users:listing")
		require.NoError(t, err)
		assert.Equal(t, first, cached)

		second, err := f.svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("registration invalidates the cached listing", func(t *testing.T) {
		f := newUserFixture()
		f.register(t, "alice", "alice@example.com")

		first, err := f.svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, first, 1)

		f.register(t, "bob", "bob@example.com")

		_, err = f.cache.Get(context.Background(), "users:listing")
		require.ErrorIs(t, err, errs.ErrNotFound)

		second, err := f.svc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, second, 2)
	})
}
