package comment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

func TestNewComment(t *testing.T) {
	postID := uuid.NewUUID()
	creator := uuid.NewUUID()

	t.Run("valid comment", func(t *testing.T) {
		c, err := comment.NewComment(postID, "nice post", creator)
		require.NoError(t, err)

		assert.False(t, c.ID().IsZero())
		assert.Equal(t, postID, c.PostID())
		assert.Equal(t, "nice post", c.Description())
		assert.Equal(t, creator, c.CreatedBy())
		assert.Equal(t, 0, c.VoteCount())
	})

	t.Run("empty description rejected", func(t *testing.T) {
		_, err := comment.NewComment(postID, "   ", creator)
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("description too long rejected", func(t *testing.T) {
		_, err := comment.NewComment(postID, strings.Repeat("a", comment.MaxDescriptionLength+1), creator)
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("zero post ID rejected", func(t *testing.T) {
		_, err := comment.NewComment(uuid.UUID(""), "body", creator)
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("zero creator rejected", func(t *testing.T) {
		_, err := comment.NewComment(postID, "body", uuid.UUID(""))
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestComment_Apply(t *testing.T) {
	postID := uuid.NewUUID()
	creator := uuid.NewUUID()

	t.Run("description update", func(t *testing.T) {
		c, err := comment.NewComment(postID, "original", creator)
		require.NoError(t, err)
		desc := "edited"

		err = c.Apply(comment.Update{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, "edited", c.Description())
		assert.Equal(t, postID, c.PostID())
	})

	t.Run("empty update rejected", func(t *testing.T) {
		c, err := comment.NewComment(postID, "original", creator)
		require.NoError(t, err)

		err = c.Apply(comment.Update{})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
		assert.Equal(t, "original", c.Description())
	})

	t.Run("invalid description rejected", func(t *testing.T) {
		c, err := comment.NewComment(postID, "original", creator)
		require.NoError(t, err)
		bad := ""

		err = c.Apply(comment.Update{Description: &bad})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestNewReference(t *testing.T) {
	commentID := uuid.NewUUID()
	postID := uuid.NewUUID()

	t.Run("valid reference", func(t *testing.T) {
		ref, err := comment.NewReference(commentID, postID)
		require.NoError(t, err)
		assert.Equal(t, commentID, ref.CommentID)
		assert.Equal(t, postID, ref.PostID)
	})

	t.Run("zero IDs rejected", func(t *testing.T) {
		_, err := comment.NewReference(uuid.UUID(""), postID)
		require.ErrorIs(t, err, errs.ErrInvalidInput)

		_, err = comment.NewReference(commentID, uuid.UUID(""))
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}
