// Package mongodb implements the application repository interfaces on
// MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/agora/internal/domain/errs"
)

// Collection names.
const (
	CollectionUsers       = "users"
	CollectionPosts       = "posts"
	CollectionComments    = "comments"
	CollectionCommentRefs = "comment_refs"
)

// Pagination limits for listing queries.
const (
	DefaultPaginationLimit = 50
	MaxPaginationLimit     = 100
)

// HandleMongoError converts a MongoDB error into a domain error.
// Returns:
//   - nil if err == nil
//   - errs.ErrNotFound if a document was not found
//   - errs.ErrAlreadyExists on a unique constraint violation
//   - a wrapped error otherwise
func HandleMongoError(err error, resourceType string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}

	return fmt.Errorf("failed to operate on %s: %w", resourceType, err)
}

// ClampLimit applies default and maximum bounds to a listing limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	if limit > MaxPaginationLimit {
		return MaxPaginationLimit
	}
	return limit
}

// FindSorted returns find options with sorting and pagination applied.
func FindSorted(offset, limit int, sortField string, sortOrder int) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetLimit(int64(ClampLimit(limit))).
		SetSkip(int64(offset))
}

// decodeAll drains a cursor into documents and converts each with conv.
func decodeAll[D any, T any](
	ctx context.Context,
	cursor *mongo.Cursor,
	conv func(*D) (T, error),
	resourceType string,
) ([]T, error) {
	defer cursor.Close(ctx)

	out := make([]T, 0)
	for cursor.Next(ctx) {
		var doc D
		if err := cursor.Decode(&doc); err != nil {
			return nil, HandleMongoError(err, resourceType)
		}
		item, err := conv(&doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, HandleMongoError(err, resourceType)
	}
	return out, nil
}
