package comment

import (
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Reference is the denormalized comment-to-post mapping. Every live comment
// has exactly one reference with a matching comment ID; it is written when
// the comment is created and removed when the comment (or its post) is
// deleted.
type Reference struct {
	CommentID uuid.UUID
	PostID    uuid.UUID
}

// NewReference creates a reference for a comment under a post.
func NewReference(commentID, postID uuid.UUID) (Reference, error) {
	if commentID.IsZero() || postID.IsZero() {
		return Reference{}, errs.ErrInvalidInput
	}
	return Reference{CommentID: commentID, PostID: postID}, nil
}
