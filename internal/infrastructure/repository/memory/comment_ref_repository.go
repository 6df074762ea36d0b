package memory

import (
	"context"
	"sync"

	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// CommentRefRepository is an in-memory commentapp.ReferenceIndex.
type CommentRefRepository struct {
	mu   sync.RWMutex
	refs map[uuid.UUID]uuid.UUID

	// FailPut forces the next Put to fail; used to exercise the
	// partial-failure compensation path in tests.
	FailPut bool
}

// NewCommentRefRepository creates an empty in-memory reference index.
func NewCommentRefRepository() *CommentRefRepository {
	return &CommentRefRepository{
		refs: make(map[uuid.UUID]uuid.UUID),
	}
}

// Put creates or overwrites the mapping for a comment.
func (r *CommentRefRepository) Put(_ context.Context, ref commentdomain.Reference) error {
	if ref.CommentID.IsZero() || ref.PostID.IsZero() {
		return errs.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailPut {
		return errs.ErrInternal
	}
	r.refs[ref.CommentID] = ref.PostID
	return nil
}

// Get resolves a comment ID to its owning post ID.
func (r *CommentRefRepository) Get(_ context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postID, ok := r.refs[commentID]
	if !ok {
		return "", errs.ErrNotFound
	}
	return postID, nil
}

// Remove deletes the mapping for a comment.
func (r *CommentRefRepository) Remove(_ context.Context, commentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.refs, commentID)
	return nil
}

// RemoveByPost deletes every mapping that points at a post.
func (r *CommentRefRepository) RemoveByPost(_ context.Context, postID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for commentID, pid := range r.refs {
		if pid == postID {
			delete(r.refs, commentID)
		}
	}
	return nil
}

// Len returns the number of live mappings.
func (r *CommentRefRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.refs)
}
