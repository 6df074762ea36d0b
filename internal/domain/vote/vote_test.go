package vote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/vote"
)

func TestParseDirection(t *testing.T) {
	t.Run("upvote", func(t *testing.T) {
		d, err := vote.ParseDirection("upvote")
		require.NoError(t, err)
		assert.Equal(t, vote.Up, d)
	})

	t.Run("downvote", func(t *testing.T) {
		d, err := vote.ParseDirection("downvote")
		require.NoError(t, err)
		assert.Equal(t, vote.Down, d)
	})

	t.Run("unknown value rejected", func(t *testing.T) {
		_, err := vote.ParseDirection("sideways")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("empty value rejected", func(t *testing.T) {
		_, err := vote.ParseDirection("")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, err := vote.ParseDirection("Upvote")
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestDirection_Delta(t *testing.T) {
	assert.Equal(t, 1, vote.Up.Delta())
	assert.Equal(t, -1, vote.Down.Delta())
}
