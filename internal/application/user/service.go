// Package user implements registration, login and the cached user listing.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lllypuk/agora/internal/domain/errs"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Validation limits.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit

	listingCacheKey  = "users:listing"
	defaultListLimit = 50
)

// RegisterCommand contains the data for registering a user.
type RegisterCommand struct {
	Username string
	Email    string
	Password string
}

// UpdateCommand contains the partial field set for updating a user. Role is
// only honored on the admin route; profile updates leave it nil.
type UpdateCommand struct {
	UserID   uuid.UUID
	Username *string
	Email    *string
	Role     *string
}

// LoginResult carries the issued token together with the authenticated
// user.
type LoginResult struct {
	Token string
	User  *userdomain.User
}

// Service implements user registration, authentication and listing.
type Service struct {
	users  Repository
	cache  ListingCache
	tokens TokenIssuer
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the user service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the user service.
func NewService(users Repository, cache ListingCache, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:  users,
		cache:  cache,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a member account. A duplicate email surfaces as
// errs.ErrAlreadyExists (409).
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*userdomain.User, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))

	if cmd.Username == "" || cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, errs.ErrInvalidInput
	}
	if len(cmd.Password) < MinPasswordLength || len(cmd.Password) > MaxPasswordLength {
		return nil, errs.ErrInvalidInput
	}

	taken, err := s.users.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, errs.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := userdomain.NewUser(cmd.Username, cmd.Email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	// Stale listing pages are dropped, not rewritten.
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate user listing cache",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID().String()),
		slog.String("username", u.Username()),
	)
	return u, nil
}

// Login verifies the credentials and issues an access token carrying the
// user ID and role. Invalid credentials surface uniformly as unauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, errs.ErrInvalidInput
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return LoginResult{}, errs.ErrUnauthorized
		}
		return LoginResult{}, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		return LoginResult{}, errs.ErrUnauthorized
	}

	token, err := s.tokens.Issue(u.ID(), u.Role())
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID().String()))
	return LoginResult{Token: token, User: u}, nil
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	return s.users.FindByID(ctx, id)
}

// Update merges a partial field set into a user. An email change to an
// address held by another account surfaces as errs.ErrAlreadyExists.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*userdomain.User, error) {
	if cmd.UserID.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if cmd.Username == nil && cmd.Email == nil && cmd.Role == nil {
		return nil, errs.ErrInvalidInput
	}

	u, err := s.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*cmd.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, errs.ErrInvalidInput
		}
		if email != u.Email() {
			taken, existsErr := s.users.ExistsByEmail(ctx, email)
			if existsErr != nil {
				return nil, fmt.Errorf("failed to check email: %w", existsErr)
			}
			if taken {
				return nil, errs.ErrAlreadyExists
			}
		}
		cmd.Email = &email
	}
	if cmd.Username != nil {
		username := strings.TrimSpace(*cmd.Username)
		cmd.Username = &username
	}

	if cmd.Username != nil || cmd.Email != nil {
		if applyErr := u.Apply(userdomain.Update{
			Username: cmd.Username,
			Email:    cmd.Email,
		}); applyErr != nil {
			return nil, applyErr
		}
	}
	if cmd.Role != nil {
		role, roleErr := userdomain.ParseRole(*cmd.Role)
		if roleErr != nil {
			return nil, roleErr
		}
		if roleErr := u.SetRole(role); roleErr != nil {
			return nil, roleErr
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate user listing cache",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user updated", slog.String("user_id", u.ID().String()))
	return u, nil
}

// ChangePassword replaces a user's password after verifying the current
// one. A wrong current password is invalid input, not unauthorized; the
// caller is already authenticated.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if userID.IsZero() {
		return errs.ErrInvalidInput
	}
	if len(newPassword) < MinPasswordLength || len(newPassword) > MaxPasswordLength {
		return errs.ErrInvalidInput
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password is incorrect", errs.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.SetPasswordHash(string(hash)); err != nil {
		return err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID.String()))
	return nil
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id.IsZero() {
		return errs.ErrInvalidInput
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate user listing cache",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id.String()))
	return nil
}

// List returns the user listing, served from the cache when possible.
// Cache failures degrade to a direct store read.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	cached, err := s.cache.Get(ctx, listingCacheKey)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		s.logger.WarnContext(ctx, "user listing cache read failed",
			slog.String("error", err.Error()),
		)
	}

	users, err := s.users.List(ctx, 0, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	listings := make([]Listing, 0, len(users))
	for _, u := range users {
		listings = append(listings, Listing{
			ID:        u.ID(),
			Username:  u.Username(),
			Email:     u.Email(),
			Role:      string(u.Role()),
			CreatedAt: u.CreatedAt(),
		})
	}

	if err := s.cache.Set(ctx, listingCacheKey, listings); err != nil {
		s.logger.WarnContext(ctx, "user listing cache write failed",
			slog.String("error", err.Error()),
		)
	}
	return listings, nil
}
