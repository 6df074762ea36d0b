package comment

import (
	"strings"
	"time"

	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// MaxDescriptionLength limits the comment body.
const MaxDescriptionLength = 5000

// Comment represents a comment nested under a post. A comment cannot exist
// without a parent post and never changes parent.
type Comment struct {
	id          uuid.UUID
	description string
	voteCount   int
	postID      uuid.UUID
	createdBy   uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewComment creates a comment with a zero vote count.
func NewComment(postID uuid.UUID, description string, createdBy uuid.UUID) (*Comment, error) {
	description = strings.TrimSpace(description)
	if description == "" || len(description) > MaxDescriptionLength {
		return nil, errs.ErrInvalidInput
	}
	if postID.IsZero() || createdBy.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	now := time.Now().UTC()
	return &Comment{
		id:          uuid.NewUUID(),
		description: description,
		voteCount:   0,
		postID:      postID,
		createdBy:   createdBy,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct restores a comment from storage.
func Reconstruct(
	id uuid.UUID,
	description string,
	voteCount int,
	postID, createdBy uuid.UUID,
	createdAt, updatedAt time.Time,
) *Comment {
	return &Comment{
		id:          id,
		description: description,
		voteCount:   voteCount,
		postID:      postID,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Update is an explicit partial update for a comment.
type Update struct {
	Description *string
}

// Validate checks the populated fields of the partial update.
func (u Update) Validate() error {
	if u.Description == nil {
		return errs.ErrInvalidInput
	}
	d := strings.TrimSpace(*u.Description)
	if d == "" || len(d) > MaxDescriptionLength {
		return errs.ErrInvalidInput
	}
	return nil
}

// Apply merges the partial update into the comment and stamps updatedAt.
func (c *Comment) Apply(u Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	c.description = strings.TrimSpace(*u.Description)
	c.updatedAt = time.Now().UTC()
	return nil
}

// ID returns the comment ID.
func (c *Comment) ID() uuid.UUID {
	return c.id
}

// Description returns the comment body.
func (c *Comment) Description() string {
	return c.description
}

// VoteCount returns the current vote counter.
func (c *Comment) VoteCount() int {
	return c.voteCount
}

// PostID returns the owning post ID.
func (c *Comment) PostID() uuid.UUID {
	return c.postID
}

// CreatedBy returns the creator ID.
func (c *Comment) CreatedBy() uuid.UUID {
	return c.createdBy
}

// CreatedAt returns the creation time.
func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns the time of the last update.
func (c *Comment) UpdatedAt() time.Time {
	return c.updatedAt
}
