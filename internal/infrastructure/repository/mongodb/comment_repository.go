package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// MongoCommentRepository implements commentapp.Repository. Every
// single-comment query is scoped by both post_id and comment_id, so a
// comment is only ever visible under its own post.
type MongoCommentRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// CommentRepoOption configures MongoCommentRepository.
type CommentRepoOption func(*MongoCommentRepository)

// WithCommentRepoLogger sets the logger for the comment repository.
func WithCommentRepoLogger(logger *slog.Logger) CommentRepoOption {
	return func(r *MongoCommentRepository) {
		r.logger = logger
	}
}

// NewMongoCommentRepository creates a new MongoDB comment repository.
func NewMongoCommentRepository(collection *mongo.Collection, opts ...CommentRepoOption) *MongoCommentRepository {
	r := &MongoCommentRepository{
		collection: collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByID finds a comment under the given post.
func (r *MongoCommentRepository) FindByID(
	ctx context.Context,
	postID, commentID uuid.UUID,
) (*commentdomain.Comment, error) {
	if postID.IsZero() || commentID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": postID.String(), "comment_id": commentID.String()}
	var doc commentDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find comment",
				slog.String("comment_id", commentID.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "comment")
	}

	return documentToComment(&doc)
}

// ListByPost returns all comments of a post, oldest first. A post without
// comments yields an empty slice.
func (r *MongoCommentRepository) ListByPost(
	ctx context.Context,
	postID uuid.UUID,
) ([]*commentdomain.Comment, error) {
	if postID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": postID.String()}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, HandleMongoError(err, "comments")
	}
	return decodeAll(ctx, cursor, documentToComment, "comments")
}

// Save persists a new comment document.
func (r *MongoCommentRepository) Save(ctx context.Context, c *commentdomain.Comment) error {
	if c == nil || c.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.collection.InsertOne(ctx, commentToDocument(c))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to save comment",
			slog.String("comment_id", c.ID().String()),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, "comment")
}

// Update replaces the mutable fields of an existing comment document.
func (r *MongoCommentRepository) Update(ctx context.Context, c *commentdomain.Comment) error {
	if c == nil || c.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": c.PostID().String(), "comment_id": c.ID().String()}
	update := bson.M{"$set": bson.M{
		"description": c.Description(),
		"updated_at":  c.UpdatedAt(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return HandleMongoError(err, "comment")
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a comment document under the given post.
func (r *MongoCommentRepository) Delete(ctx context.Context, postID, commentID uuid.UUID) error {
	if postID.IsZero() || commentID.IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": postID.String(), "comment_id": commentID.String()}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return HandleMongoError(err, "comment")
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteByPost removes all comments of a post. Zero deletions are not an
// error; a post may have no comments.
func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	if postID.IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.collection.DeleteMany(ctx, bson.M{"post_id": postID.String()})
	return HandleMongoError(err, "comments")
}

// IncrementVote atomically adjusts the vote counter with $inc and returns
// the new count.
func (r *MongoCommentRepository) IncrementVote(
	ctx context.Context,
	postID, commentID uuid.UUID,
	direction vote.Direction,
) (int, error) {
	if postID.IsZero() || commentID.IsZero() {
		return 0, errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": postID.String(), "comment_id": commentID.String()}
	update := bson.M{"$inc": bson.M{"vote_count": direction.Delta()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc commentDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return 0, HandleMongoError(err, "comment")
	}
	return doc.VoteCount, nil
}

// commentDocument represents the comment document structure in MongoDB.
type commentDocument struct {
	CommentID   string    `bson:"comment_id"`
	PostID      string    `bson:"post_id"`
	Description string    `bson:"description"`
	VoteCount   int       `bson:"vote_count"`
	CreatedBy   string    `bson:"created_by"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func commentToDocument(c *commentdomain.Comment) commentDocument {
	return commentDocument{
		CommentID:   c.ID().String(),
		PostID:      c.PostID().String(),
		Description: c.Description(),
		VoteCount:   c.VoteCount(),
		CreatedBy:   c.CreatedBy().String(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func documentToComment(doc *commentDocument) (*commentdomain.Comment, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	id, err := uuid.ParseUUID(doc.CommentID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	postID, err := uuid.ParseUUID(doc.PostID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	createdBy, err := uuid.ParseUUID(doc.CreatedBy)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	return commentdomain.Reconstruct(
		id,
		doc.Description,
		doc.VoteCount,
		postID,
		createdBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
