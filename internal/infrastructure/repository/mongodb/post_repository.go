package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	postapp "github.com/lllypuk/agora/internal/application/post"
	"github.com/lllypuk/agora/internal/domain/errs"
	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// MongoPostRepository implements postapp.Repository and the post existence
// check used by the comment service.
type MongoPostRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// PostRepoOption configures MongoPostRepository.
type PostRepoOption func(*MongoPostRepository)

// WithPostRepoLogger sets the logger for the post repository.
func WithPostRepoLogger(logger *slog.Logger) PostRepoOption {
	return func(r *MongoPostRepository) {
		r.logger = logger
	}
}

// NewMongoPostRepository creates a new MongoDB post repository.
func NewMongoPostRepository(collection *mongo.Collection, opts ...PostRepoOption) *MongoPostRepository {
	r := &MongoPostRepository{
		collection: collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByID finds a post by ID.
func (r *MongoPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*postdomain.Post, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": id.String()}
	var doc postDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find post by ID",
				slog.String("post_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "post")
	}

	return documentToPost(&doc)
}

// Exists reports whether a post with the given ID exists.
func (r *MongoPostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id.IsZero() {
		return false, errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": id.String()}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, HandleMongoError(err, "post")
	}
	return count > 0, nil
}

// Save persists a new post document.
func (r *MongoPostRepository) Save(ctx context.Context, p *postdomain.Post) error {
	if p == nil || p.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.collection.InsertOne(ctx, postToDocument(p))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to save post",
			slog.String("post_id", p.ID().String()),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, "post")
}

// Update replaces the mutable fields of an existing post document. The
// creator and vote count are deliberately excluded from the update set.
func (r *MongoPostRepository) Update(ctx context.Context, p *postdomain.Post) error {
	if p == nil || p.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": p.ID().String()}
	update := bson.M{"$set": bson.M{
		"title":       p.Title(),
		"description": p.Description(),
		"categories":  p.Categories(),
		"updated_at":  p.UpdatedAt(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return HandleMongoError(err, "post")
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a post document.
func (r *MongoPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if id.IsZero() {
		return errs.ErrInvalidInput
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"post_id": id.String()})
	if err != nil {
		return HandleMongoError(err, "post")
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// IncrementVote atomically adjusts the vote counter with $inc and returns
// the new count. A single storage round trip; concurrent votes cannot lose
// updates.
func (r *MongoPostRepository) IncrementVote(
	ctx context.Context,
	id uuid.UUID,
	direction vote.Direction,
) (int, error) {
	if id.IsZero() {
		return 0, errs.ErrInvalidInput
	}

	filter := bson.M{"post_id": id.String()}
	update := bson.M{"$inc": bson.M{"vote_count": direction.Delta()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return 0, HandleMongoError(err, "post")
	}
	return doc.VoteCount, nil
}

// List returns posts matching the filters, newest first.
func (r *MongoPostRepository) List(ctx context.Context, filters postapp.Filters) ([]*postdomain.Post, error) {
	filter := bson.M{}
	if filters.Category != "" {
		// Matching a scalar against an array field gives array-contains
		// semantics.
		filter["categories"] = filters.Category
	}
	if !filters.CreatedBy.IsZero() {
		filter["created_by"] = filters.CreatedBy.String()
	}

	cursor, err := r.collection.Find(ctx, filter, FindSorted(filters.Offset, filters.Limit, "created_at", -1))
	if err != nil {
		return nil, HandleMongoError(err, "posts")
	}
	return decodeAll(ctx, cursor, documentToPost, "posts")
}

// postDocument represents the post document structure in MongoDB.
type postDocument struct {
	PostID      string    `bson:"post_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Categories  []string  `bson:"categories"`
	CreatedBy   string    `bson:"created_by"`
	VoteCount   int       `bson:"vote_count"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func postToDocument(p *postdomain.Post) postDocument {
	return postDocument{
		PostID:      p.ID().String(),
		Title:       p.Title(),
		Description: p.Description(),
		Categories:  p.Categories(),
		CreatedBy:   p.CreatedBy().String(),
		VoteCount:   p.VoteCount(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func documentToPost(doc *postDocument) (*postdomain.Post, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	id, err := uuid.ParseUUID(doc.PostID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	createdBy, err := uuid.ParseUUID(doc.CreatedBy)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	return postdomain.Reconstruct(
		id,
		doc.Title,
		doc.Description,
		doc.Categories,
		createdBy,
		doc.VoteCount,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
