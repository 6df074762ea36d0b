package memory

import (
	"context"
	"sort"
	"sync"

	userapp "github.com/lllypuk/agora/internal/application/user"
	"github.com/lllypuk/agora/internal/domain/errs"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// UserRepository is an in-memory userapp.Repository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*userdomain.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]*userdomain.User),
	}
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return u, nil
}

// FindByEmail finds a user by email address.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

// ExistsByEmail reports whether a user with the email is registered.
func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

// Save persists a new user.
func (r *UserRepository) Save(_ context.Context, u *userdomain.User) error {
	if u == nil || u.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return errs.ErrAlreadyExists
		}
	}
	r.users[u.ID()] = u
	return nil
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(_ context.Context, u *userdomain.User) error {
	if u == nil || u.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID()]; !ok {
		return errs.ErrNotFound
	}
	for id, existing := range r.users {
		if id != u.ID() && existing.Email() == u.Email() {
			return errs.ErrAlreadyExists
		}
	}
	r.users[u.ID()] = u
	return nil
}

// Delete removes a user.
func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// List returns users ordered by creation time.
func (r *UserRepository) List(_ context.Context, offset, limit int) ([]*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*userdomain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})

	if offset > 0 {
		if offset >= len(out) {
			return []*userdomain.User{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListingCache is an in-memory userapp.ListingCache.
type ListingCache struct {
	mu    sync.RWMutex
	pages map[string][]userapp.Listing
}

// NewListingCache creates an empty in-memory listing cache.
func NewListingCache() *ListingCache {
	return &ListingCache{
		pages: make(map[string][]userapp.Listing),
	}
}

// Get returns the cached listing page.
func (c *ListingCache) Get(_ context.Context, key string) ([]userapp.Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	page, ok := c.pages[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return page, nil
}

// Set stores a listing page under the key.
func (c *ListingCache) Set(_ context.Context, key string, listings []userapp.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages[key] = listings
	return nil
}

// Invalidate drops all cached listing pages.
func (c *ListingCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.pages)
	return nil
}
