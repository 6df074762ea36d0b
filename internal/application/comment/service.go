// Package comment implements the comment mutation service. Comments are
// located through the reference index: comment ID resolves to the owning
// post ID in one read, then the comment is loaded under that post. The
// index entry is written when the comment is created and removed when the
// comment or its post is deleted, so the index and the live comments never
// drift apart.
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lllypuk/agora/internal/application/authz"
	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// AddCommand contains the data for creating a comment. CreatedBy comes
// from the authenticated actor.
type AddCommand struct {
	PostID      uuid.UUID
	Description string
	CreatedBy   uuid.UUID
}

// UpdateCommand contains the partial field set for updating a comment.
type UpdateCommand struct {
	CommentID uuid.UUID
	Update    commentdomain.Update
}

// Service orchestrates comment operations against the document store and
// the reference index.
type Service struct {
	comments Repository
	refs     ReferenceIndex
	posts    PostChecker
	policy   authz.Policy
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the comment service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the comment service.
func NewService(
	comments Repository,
	refs ReferenceIndex,
	posts PostChecker,
	policy authz.Policy,
	opts ...Option,
) *Service {
	s := &Service{
		comments: comments,
		refs:     refs,
		posts:    posts,
		policy:   policy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a comment under an existing post together with its reference
// index entry. The post existence check runs before any write, so adding
// to a missing post leaves no comment and no index entry behind. If the
// index write fails the comment write is compensated, so a failed Add
// never leaves an unindexed comment.
func (s *Service) Add(ctx context.Context, cmd AddCommand) (*commentdomain.Comment, error) {
	if cmd.PostID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	exists, err := s.posts.Exists(ctx, cmd.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post existence: %w", err)
	}
	if !exists {
		return nil, errs.ErrNotFound
	}

	c, err := commentdomain.NewComment(cmd.PostID, cmd.Description, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	ref, err := commentdomain.NewReference(c.ID(), cmd.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.refs.Put(ctx, ref); err != nil {
		s.logger.ErrorContext(ctx, "reference index write failed, compensating comment write",
			slog.String("comment_id", c.ID().String()),
			slog.String("post_id", cmd.PostID.String()),
			slog.String("error", err.Error()),
		)
		if delErr := s.comments.Delete(ctx, cmd.PostID, c.ID()); delErr != nil {
			s.logger.ErrorContext(ctx, "compensating delete failed, comment left unindexed",
				slog.String("comment_id", c.ID().String()),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("%w: failed to index comment", errs.ErrInternal)
	}

	s.logger.InfoContext(ctx, "comment added",
		slog.String("comment_id", c.ID().String()),
		slog.String("post_id", cmd.PostID.String()),
	)
	return c, nil
}

// Get returns a comment by ID alone, resolving the owning post through
// the reference index.
func (s *Service) Get(ctx context.Context, commentID uuid.UUID) (*commentdomain.Comment, error) {
	_, c, err := s.locate(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByPost returns all comments of a post. A post without comments (or a
// missing post) yields an empty list, never not-found.
func (s *Service) ListByPost(ctx context.Context, postID uuid.UUID) ([]*commentdomain.Comment, error) {
	if postID.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	return s.comments.ListByPost(ctx, postID)
}

// Update merges a partial field set into a comment. Only the creator or an
// admin may update; a denied actor leaves the comment unchanged.
func (s *Service) Update(
	ctx context.Context,
	actor authz.Actor,
	cmd UpdateCommand,
) (*commentdomain.Comment, error) {
	_, c, err := s.locate(ctx, cmd.CommentID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanMutate(actor, c.CreatedBy()) {
		return nil, errs.ErrForbidden
	}

	if err := c.Apply(cmd.Update); err != nil {
		return nil, err
	}

	if err := s.comments.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment and its reference index entry. Only the creator
// or an admin may delete.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, commentID uuid.UUID) error {
	postID, c, err := s.locate(ctx, commentID)
	if err != nil {
		return err
	}

	if !s.policy.CanMutate(actor, c.CreatedBy()) {
		return errs.ErrForbidden
	}

	if err := s.comments.Delete(ctx, postID, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if err := s.refs.Remove(ctx, commentID); err != nil {
		return fmt.Errorf("failed to remove comment reference: %w", err)
	}

	s.logger.InfoContext(ctx, "comment deleted",
		slog.String("comment_id", commentID.String()),
		slog.String("actor_id", actor.UserID.String()),
	)
	return nil
}

// Vote adjusts the comment vote counter by one in the given direction and
// returns the new count. Direction is validated before any storage access;
// repeated votes by the same user all count.
func (s *Service) Vote(ctx context.Context, commentID uuid.UUID, direction vote.Direction) (int, error) {
	if _, err := vote.ParseDirection(direction.String()); err != nil {
		return 0, err
	}

	postID, err := s.resolvePost(ctx, commentID)
	if err != nil {
		return 0, err
	}

	count, err := s.comments.IncrementVote(ctx, postID, commentID, direction)
	if err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "comment voted",
		slog.String("comment_id", commentID.String()),
		slog.String("direction", direction.String()),
		slog.Int("vote_count", count),
	)
	return count, nil
}

// DeleteByPost removes all comments of a post and their reference entries.
// Invoked by the post service when a post is deleted.
func (s *Service) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	if postID.IsZero() {
		return errs.ErrInvalidInput
	}
	if err := s.comments.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.refs.RemoveByPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to remove comment references: %w", err)
	}
	return nil
}

// resolvePost resolves a comment ID to its owning post ID through the
// reference index.
func (s *Service) resolvePost(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	if commentID.IsZero() {
		return "", errs.ErrInvalidInput
	}
	return s.refs.Get(ctx, commentID)
}

// locate resolves and loads a comment by ID alone. A dangling index entry
// whose comment document is gone surfaces as not-found.
func (s *Service) locate(ctx context.Context, commentID uuid.UUID) (uuid.UUID, *commentdomain.Comment, error) {
	postID, err := s.resolvePost(ctx, commentID)
	if err != nil {
		return "", nil, err
	}

	c, err := s.comments.FindByID(ctx, postID, commentID)
	if err != nil {
		return "", nil, err
	}
	return postID, c, nil
}
