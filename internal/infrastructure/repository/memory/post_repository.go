// Package memory provides in-memory implementations of the application
// repository interfaces for tests and mock wiring.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	postapp "github.com/lllypuk/agora/internal/application/post"
	"github.com/lllypuk/agora/internal/domain/errs"
	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// PostRepository is an in-memory postapp.Repository.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*postdomain.Post
	votes map[uuid.UUID]int
}

// NewPostRepository creates an empty in-memory post repository.
func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[uuid.UUID]*postdomain.Post),
		votes: make(map[uuid.UUID]int),
	}
}

// FindByID finds a post by ID.
func (r *PostRepository) FindByID(_ context.Context, id uuid.UUID) (*postdomain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return r.withVotes(p), nil
}

// Exists reports whether a post with the given ID exists.
func (r *PostRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.posts[id]
	return ok, nil
}

// Save persists a new post.
func (r *PostRepository) Save(_ context.Context, p *postdomain.Post) error {
	if p == nil || p.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID()]; ok {
		return errs.ErrAlreadyExists
	}
	r.posts[p.ID()] = p
	r.votes[p.ID()] = p.VoteCount()
	return nil
}

// Update replaces an existing post.
func (r *PostRepository) Update(_ context.Context, p *postdomain.Post) error {
	if p == nil || p.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID()]; !ok {
		return errs.ErrNotFound
	}
	r.posts[p.ID()] = p
	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.posts, id)
	delete(r.votes, id)
	return nil
}

// IncrementVote adjusts the vote counter under the repository lock and
// returns the new count.
func (r *PostRepository) IncrementVote(
	_ context.Context,
	id uuid.UUID,
	direction vote.Direction,
) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return 0, errs.ErrNotFound
	}
	r.votes[id] += direction.Delta()
	return r.votes[id], nil
}

// List returns posts matching the filters, newest first.
func (r *PostRepository) List(_ context.Context, filters postapp.Filters) ([]*postdomain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*postdomain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filters.Category != "" && !p.HasCategory(filters.Category) {
			continue
		}
		if !filters.CreatedBy.IsZero() && p.CreatedBy() != filters.CreatedBy {
			continue
		}
		out = append(out, r.withVotes(p))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return []*postdomain.Post{}, nil
		}
		out = slices.Clone(out[filters.Offset:])
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

// withVotes rebuilds the post with the current vote counter, mirroring a
// storage read after $inc updates.
func (r *PostRepository) withVotes(p *postdomain.Post) *postdomain.Post {
	return postdomain.Reconstruct(
		p.ID(),
		p.Title(),
		p.Description(),
		p.Categories(),
		p.CreatedBy(),
		r.votes[p.ID()],
		p.CreatedAt(),
		p.UpdatedAt(),
	)
}
