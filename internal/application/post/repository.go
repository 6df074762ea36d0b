package post

import (
	"context"

	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// Filters narrows post listings. Zero values mean no filtering.
type Filters struct {
	// Category matches posts whose category set contains the value
	// (array-contains semantics).
	Category string

	// CreatedBy matches posts created by the given user.
	CreatedBy uuid.UUID

	Offset int
	Limit  int
}

// Repository is the document-store access the post service depends on.
// Declared on the consumer side per project guidelines.
type Repository interface {
	// FindByID finds a post by ID. Returns errs.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*postdomain.Post, error)

	// Save persists a new post document.
	Save(ctx context.Context, p *postdomain.Post) error

	// Update replaces the mutable fields of an existing post document.
	// Returns errs.ErrNotFound when the post no longer exists.
	Update(ctx context.Context, p *postdomain.Post) error

	// Delete removes a post document. Returns errs.ErrNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementVote atomically adjusts the vote counter at the storage
	// layer and returns the new count. Returns errs.ErrNotFound when the
	// post does not exist. No floor is applied; counts may go negative.
	IncrementVote(ctx context.Context, id uuid.UUID, direction vote.Direction) (int, error)

	// List returns posts matching the filters, newest first.
	List(ctx context.Context, filters Filters) ([]*postdomain.Post, error)
}

// CommentCascader removes everything nested under a post. The post service
// invokes it when a post is deleted so no orphaned comments or reference
// entries survive.
type CommentCascader interface {
	// DeleteByPost removes all comments of a post and their reference
	// index entries.
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}
