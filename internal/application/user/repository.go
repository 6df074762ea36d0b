package user

import (
	"context"
	"time"

	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Repository is the document-store access for users.
type Repository interface {
	// FindByID finds a user by ID. Returns errs.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error)

	// FindByEmail finds a user by email address.
	FindByEmail(ctx context.Context, email string) (*userdomain.User, error)

	// ExistsByEmail reports whether a user with the email is registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save persists a new user. Returns errs.ErrAlreadyExists on a
	// duplicate email.
	Save(ctx context.Context, u *userdomain.User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *userdomain.User) error

	// Delete removes a user. Returns errs.ErrNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns users ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*userdomain.User, error)
}

// Listing is the cacheable projection of a user for listings. Password
// hashes never leave the repository surface through it.
type Listing struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingCache caches assembled user listings. A miss is reported as
// errs.ErrNotFound; cache failures must not fail the listing path.
type ListingCache interface {
	// Get returns the cached listing page.
	Get(ctx context.Context, key string) ([]Listing, error)

	// Set stores a listing page under the key.
	Set(ctx context.Context, key string, listings []Listing) error

	// Invalidate drops all cached listing pages.
	Invalidate(ctx context.Context) error
}

// TokenIssuer issues signed access tokens carrying the user identity and
// role. Verification lives with the auth middleware; the service only
// issues.
type TokenIssuer interface {
	// Issue creates a signed token for the user.
	Issue(userID uuid.UUID, role userdomain.Role) (string, error)
}
