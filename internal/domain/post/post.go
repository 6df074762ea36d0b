package post

import (
	"slices"
	"strings"
	"time"

	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Validation limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
	MaxCategories        = 10
)

// Post represents a forum post. The creator is fixed at construction and
// cannot be changed by any update path.
type Post struct {
	id          uuid.UUID
	title       string
	description string
	categories  []string
	createdBy   uuid.UUID
	voteCount   int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPost creates a post with a zero vote count.
func NewPost(title, description string, categories []string, createdBy uuid.UUID) (*Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > MaxTitleLength {
		return nil, errs.ErrInvalidInput
	}
	if description == "" || len(description) > MaxDescriptionLength {
		return nil, errs.ErrInvalidInput
	}
	if len(categories) > MaxCategories {
		return nil, errs.ErrInvalidInput
	}
	if createdBy.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	now := time.Now().UTC()
	return &Post{
		id:          uuid.NewUUID(),
		title:       title,
		description: description,
		categories:  normalizeCategories(categories),
		createdBy:   createdBy,
		voteCount:   0,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct restores a post from storage.
func Reconstruct(
	id uuid.UUID,
	title, description string,
	categories []string,
	createdBy uuid.UUID,
	voteCount int,
	createdAt, updatedAt time.Time,
) *Post {
	return &Post{
		id:          id,
		title:       title,
		description: description,
		categories:  categories,
		createdBy:   createdBy,
		voteCount:   voteCount,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Update is an explicit partial update. Nil fields are left untouched.
// The creator and vote count are not part of the updatable field set.
type Update struct {
	Title       *string
	Description *string
	Categories  []string
}

// Validate checks the populated fields of the partial update.
func (u Update) Validate() error {
	if u.Title == nil && u.Description == nil && u.Categories == nil {
		return errs.ErrInvalidInput
	}
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		if t == "" || len(t) > MaxTitleLength {
			return errs.ErrInvalidInput
		}
	}
	if u.Description != nil {
		if *u.Description == "" || len(*u.Description) > MaxDescriptionLength {
			return errs.ErrInvalidInput
		}
	}
	if len(u.Categories) > MaxCategories {
		return errs.ErrInvalidInput
	}
	return nil
}

// Apply merges the partial update into the post and stamps updatedAt.
func (p *Post) Apply(u Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.Title != nil {
		p.title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		p.description = *u.Description
	}
	if u.Categories != nil {
		p.categories = normalizeCategories(u.Categories)
	}
	p.updatedAt = time.Now().UTC()
	return nil
}

// ID returns the post ID.
func (p *Post) ID() uuid.UUID {
	return p.id
}

// Title returns the post title.
func (p *Post) Title() string {
	return p.title
}

// Description returns the post body.
func (p *Post) Description() string {
	return p.description
}

// Categories returns the category tags.
func (p *Post) Categories() []string {
	return slices.Clone(p.categories)
}

// HasCategory reports whether the post carries the given tag.
func (p *Post) HasCategory(category string) bool {
	return slices.Contains(p.categories, category)
}

// CreatedBy returns the creator ID.
func (p *Post) CreatedBy() uuid.UUID {
	return p.createdBy
}

// VoteCount returns the current vote counter. Counts may be negative;
// no floor is enforced.
func (p *Post) VoteCount() int {
	return p.voteCount
}

// CreatedAt returns the creation time.
func (p *Post) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the time of the last update.
func (p *Post) UpdatedAt() time.Time {
	return p.updatedAt
}

// normalizeCategories trims tags and drops empties and duplicates while
// preserving order.
func normalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
