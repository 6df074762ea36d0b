package user

import (
	"time"

	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Role determines what a user may mutate beyond their own resources.
type Role string

// User roles.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a stored or transmitted role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	default:
		return "", errs.ErrInvalidInput
	}
}

// IsAdmin reports whether the role grants admin rights.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents a registered forum user.
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	role         Role
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new user with the member role.
func NewUser(username, email, passwordHash string) (*User, error) {
	if username == "" || email == "" || passwordHash == "" {
		return nil, errs.ErrInvalidInput
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.NewUUID(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         RoleMember,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct restores a user from storage.
func Reconstruct(
	id uuid.UUID,
	username, email, passwordHash string,
	role Role,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user ID.
func (u *User) ID() uuid.UUID {
	return u.id
}

// Username returns the username.
func (u *User) Username() string {
	return u.username
}

// Email returns the email address.
func (u *User) Email() string {
	return u.email
}

// PasswordHash returns the bcrypt hash of the password.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// Role returns the user role.
func (u *User) Role() Role {
	return u.role
}

// CreatedAt returns the creation time.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns the time of the last update.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// SetRole changes the user role.
func (u *User) SetRole(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetPasswordHash replaces the stored password hash.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return errs.ErrInvalidInput
	}
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
	return nil
}

// Update is a partial profile update. Nil fields are left unchanged.
type Update struct {
	Username *string
	Email    *string
}

// IsEmpty reports whether the update changes nothing.
func (up Update) IsEmpty() bool {
	return up.Username == nil && up.Email == nil
}

// Apply merges an update into the user. An empty update or an empty field
// value is rejected without mutating the user.
func (u *User) Apply(up Update) error {
	if up.IsEmpty() {
		return errs.ErrInvalidInput
	}
	if up.Username != nil && *up.Username == "" {
		return errs.ErrInvalidInput
	}
	if up.Email != nil && *up.Email == "" {
		return errs.ErrInvalidInput
	}

	if up.Username != nil {
		u.username = *up.Username
	}
	if up.Email != nil {
		u.email = *up.Email
	}
	u.updatedAt = time.Now().UTC()
	return nil
}
