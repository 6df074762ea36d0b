// Package post implements the post mutation service: lookup, authorization
// and mutation for every write path on posts.
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lllypuk/agora/internal/application/authz"
	"github.com/lllypuk/agora/internal/domain/errs"
	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// Service orchestrates post operations against the document store.
type Service struct {
	posts    Repository
	comments CommentCascader
	policy   authz.Policy
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the post service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the post service.
func NewService(posts Repository, comments CommentCascader, policy authz.Policy, opts ...Option) *Service {
	s := &Service{
		posts:    posts,
		comments: comments,
		policy:   policy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a post with a zero vote count and stamped timestamps.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*postdomain.Post, error) {
	p, err := postdomain.NewPost(cmd.Title, cmd.Description, cmd.Categories, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", p.ID().String()),
		slog.String("created_by", cmd.CreatedBy.String()),
	)
	return p, nil
}

// Get returns a post by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*postdomain.Post, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	return s.posts.FindByID(ctx, id)
}

// List returns posts matching the filters. An empty category means the
// unfiltered listing.
func (s *Service) List(ctx context.Context, filters Filters) ([]*postdomain.Post, error) {
	return s.posts.List(ctx, filters)
}

// Update merges a partial field set into an existing post. The existence
// check runs before the policy check, so a missing post is always
// not-found rather than forbidden.
func (s *Service) Update(ctx context.Context, actor authz.Actor, cmd UpdateCommand) (*postdomain.Post, error) {
	if cmd.PostID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	p, err := s.posts.FindByID(ctx, cmd.PostID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanMutate(actor, p.CreatedBy()) {
		return nil, errs.ErrForbidden
	}

	if err := p.Apply(cmd.Update); err != nil {
		return nil, err
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return p, nil
}

// Delete removes a post and cascades to its comments and their reference
// index entries.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if id.IsZero() {
		return errs.ErrInvalidInput
	}

	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.policy.CanMutate(actor, p.CreatedBy()) {
		return errs.ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	// Comments never outlive their post.
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to cascade comment delete",
			slog.String("post_id", id.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete comments of post: %w", err)
	}

	s.logger.InfoContext(ctx, "post deleted",
		slog.String("post_id", id.String()),
		slog.String("actor_id", actor.UserID.String()),
	)
	return nil
}

// Vote adjusts the post vote counter by one in the given direction and
// returns the new count. The direction is validated before any storage
// access. The adjustment is atomic at the storage layer; there is no
// per-user vote ledger, so repeated votes by the same user all count.
func (s *Service) Vote(ctx context.Context, id uuid.UUID, direction vote.Direction) (int, error) {
	if _, err := vote.ParseDirection(direction.String()); err != nil {
		return 0, err
	}
	if id.IsZero() {
		return 0, errs.ErrInvalidInput
	}

	count, err := s.posts.IncrementVote(ctx, id, direction)
	if err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "post voted",
		slog.String("post_id", id.String()),
		slog.String("direction", direction.String()),
		slog.Int("vote_count", count),
	)
	return count, nil
}
