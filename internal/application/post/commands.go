package post

import (
	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// CreateCommand contains the data for creating a post. CreatedBy comes from
// the authenticated actor, never from the request body.
type CreateCommand struct {
	Title       string
	Description string
	Categories  []string
	CreatedBy   uuid.UUID
}

// UpdateCommand contains the partial field set for updating a post.
type UpdateCommand struct {
	PostID uuid.UUID
	Update postdomain.Update
}
