package memory

import (
	"context"
	"sort"
	"sync"

	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

type commentKey struct {
	postID    uuid.UUID
	commentID uuid.UUID
}

// CommentRepository is an in-memory commentapp.Repository.
type CommentRepository struct {
	mu       sync.RWMutex
	comments map[commentKey]*commentdomain.Comment
	votes    map[commentKey]int

	// FailSave forces the next Save to fail; used to exercise the
	// partial-failure compensation path in tests.
	FailSave bool
}

// NewCommentRepository creates an empty in-memory comment repository.
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[commentKey]*commentdomain.Comment),
		votes:    make(map[commentKey]int),
	}
}

// FindByID finds a comment under the given post.
func (r *CommentRepository) FindByID(
	_ context.Context,
	postID, commentID uuid.UUID,
) (*commentdomain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := commentKey{postID, commentID}
	c, ok := r.comments[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return r.withVotes(key, c), nil
}

// ListByPost returns all comments of a post, oldest first.
func (r *CommentRepository) ListByPost(
	_ context.Context,
	postID uuid.UUID,
) ([]*commentdomain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*commentdomain.Comment, 0)
	for key, c := range r.comments {
		if key.postID == postID {
			out = append(out, r.withVotes(key, c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

// Save persists a new comment.
func (r *CommentRepository) Save(_ context.Context, c *commentdomain.Comment) error {
	if c == nil || c.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSave {
		return errs.ErrInternal
	}

	key := commentKey{c.PostID(), c.ID()}
	if _, ok := r.comments[key]; ok {
		return errs.ErrAlreadyExists
	}
	r.comments[key] = c
	r.votes[key] = c.VoteCount()
	return nil
}

// Update replaces an existing comment.
func (r *CommentRepository) Update(_ context.Context, c *commentdomain.Comment) error {
	if c == nil || c.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := commentKey{c.PostID(), c.ID()}
	if _, ok := r.comments[key]; !ok {
		return errs.ErrNotFound
	}
	r.comments[key] = c
	return nil
}

// Delete removes a comment under the given post.
func (r *CommentRepository) Delete(_ context.Context, postID, commentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := commentKey{postID, commentID}
	if _, ok := r.comments[key]; !ok {
		return errs.ErrNotFound
	}
	delete(r.comments, key)
	delete(r.votes, key)
	return nil
}

// DeleteByPost removes all comments of a post.
func (r *CommentRepository) DeleteByPost(_ context.Context, postID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.comments {
		if key.postID == postID {
			delete(r.comments, key)
			delete(r.votes, key)
		}
	}
	return nil
}

// IncrementVote adjusts the vote counter under the repository lock and
// returns the new count.
func (r *CommentRepository) IncrementVote(
	_ context.Context,
	postID, commentID uuid.UUID,
	direction vote.Direction,
) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := commentKey{postID, commentID}
	if _, ok := r.comments[key]; !ok {
		return 0, errs.ErrNotFound
	}
	r.votes[key] += direction.Delta()
	return r.votes[key], nil
}

func (r *CommentRepository) withVotes(key commentKey, c *commentdomain.Comment) *commentdomain.Comment {
	return commentdomain.Reconstruct(
		c.ID(),
		c.Description(),
		r.votes[key],
		c.PostID(),
		c.CreatedBy(),
		c.CreatedAt(),
		c.UpdatedAt(),
	)
}
