package comment

import (
	"context"

	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// Repository is the document-store access for comments. Comments live
// under their post, so every single-comment operation is scoped by the
// owning post ID resolved through the reference index.
type Repository interface {
	// FindByID finds a comment under the given post.
	// Returns errs.ErrNotFound when absent.
	FindByID(ctx context.Context, postID, commentID uuid.UUID) (*commentdomain.Comment, error)

	// ListByPost returns all comments of a post, oldest first. A post
	// without comments yields an empty slice, not an error.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*commentdomain.Comment, error)

	// Save persists a new comment document.
	Save(ctx context.Context, c *commentdomain.Comment) error

	// Update replaces the mutable fields of an existing comment document.
	Update(ctx context.Context, c *commentdomain.Comment) error

	// Delete removes a comment document under the given post.
	Delete(ctx context.Context, postID, commentID uuid.UUID) error

	// DeleteByPost removes all comments of a post.
	DeleteByPost(ctx context.Context, postID uuid.UUID) error

	// IncrementVote atomically adjusts the vote counter of a comment and
	// returns the new count. Returns errs.ErrNotFound when absent.
	IncrementVote(ctx context.Context, postID, commentID uuid.UUID, direction vote.Direction) (int, error)
}

// ReferenceIndex is the denormalized comment-to-post mapping. It is the
// lookup path for locating a comment by ID alone without scanning every
// post's comments.
type ReferenceIndex interface {
	// Put creates or overwrites the mapping for a comment.
	Put(ctx context.Context, ref commentdomain.Reference) error

	// Get resolves a comment ID to its owning post ID.
	// Returns errs.ErrNotFound when no mapping exists.
	Get(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error)

	// Remove deletes the mapping for a comment.
	Remove(ctx context.Context, commentID uuid.UUID) error

	// RemoveByPost deletes every mapping that points at a post.
	RemoveByPost(ctx context.Context, postID uuid.UUID) error
}

// PostChecker verifies that the parent post exists before a comment is
// created under it.
type PostChecker interface {
	// Exists reports whether a post with the given ID exists.
	Exists(ctx context.Context, postID uuid.UUID) (bool, error)
}
