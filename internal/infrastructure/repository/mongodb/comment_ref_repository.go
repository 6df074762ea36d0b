package mongodb

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// MongoCommentRefRepository implements commentapp.ReferenceIndex on the
// comment_refs collection. comment_id carries a unique index, so each live
// comment maps to exactly one post.
type MongoCommentRefRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// CommentRefRepoOption configures MongoCommentRefRepository.
type CommentRefRepoOption func(*MongoCommentRefRepository)

// WithCommentRefRepoLogger sets the logger for the reference index.
func WithCommentRefRepoLogger(logger *slog.Logger) CommentRefRepoOption {
	return func(r *MongoCommentRefRepository) {
		r.logger = logger
	}
}

// NewMongoCommentRefRepository creates a new MongoDB reference index.
func NewMongoCommentRefRepository(
	collection *mongo.Collection,
	opts ...CommentRefRepoOption,
) *MongoCommentRefRepository {
	r := &MongoCommentRefRepository{
		collection: collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put creates or overwrites the mapping for a comment.
func (r *MongoCommentRefRepository) Put(ctx context.Context, ref commentdomain.Reference) error {
	if ref.CommentID.IsZero() || ref.PostID.IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"comment_id": ref.CommentID.String()}
	update := bson.M{"$set": commentRefDocument{
		CommentID: ref.CommentID.String(),
		PostID:    ref.PostID.String(),
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to put comment reference",
			slog.String("comment_id", ref.CommentID.String()),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, "comment reference")
}

// Get resolves a comment ID to its owning post ID.
func (r *MongoCommentRefRepository) Get(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	if commentID.IsZero() {
		return "", errs.ErrInvalidInput
	}

	var doc commentRefDocument
	err := r.collection.FindOne(ctx, bson.M{"comment_id": commentID.String()}).Decode(&doc)
	if err != nil {
		return "", HandleMongoError(err, "comment reference")
	}

	postID, err := uuid.ParseUUID(doc.PostID)
	if err != nil {
		return "", errs.ErrInvalidInput
	}
	return postID, nil
}

// Remove deletes the mapping for a comment. Removing an absent mapping is
// not an error; delete paths stay idempotent.
func (r *MongoCommentRefRepository) Remove(ctx context.Context, commentID uuid.UUID) error {
	if commentID.IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.collection.DeleteOne(ctx, bson.M{"comment_id": commentID.String()})
	return HandleMongoError(err, "comment reference")
}

// RemoveByPost deletes every mapping that points at a post.
func (r *MongoCommentRefRepository) RemoveByPost(ctx context.Context, postID uuid.UUID) error {
	if postID.IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.collection.DeleteMany(ctx, bson.M{"post_id": postID.String()})
	return HandleMongoError(err, "comment references")
}

// commentRefDocument represents the reference document structure in
// MongoDB.
type commentRefDocument struct {
	CommentID string `bson:"comment_id"`
	PostID    string `bson:"post_id"`
}
