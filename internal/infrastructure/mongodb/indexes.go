// Package mongodb provides MongoDB infrastructure components including
// index management.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	repo "github.com/lllypuk/agora/internal/infrastructure/repository/mongodb"
)

// IndexDefinition describes a MongoDB index to be created.
type IndexDefinition struct {
	Collection string
	Keys       bson.D
	Options    *options.IndexOptionsBuilder
}

// CreateAllIndexes creates all necessary indexes for the application.
// This function is idempotent - calling it multiple times is safe.
func CreateAllIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range GetAllIndexDefinitions() {
		coll := db.Collection(idx.Collection)
		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: idx.Options,
		}

		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on collection %s: %w", idx.Collection, err)
		}
	}
	return nil
}

// GetAllIndexDefinitions returns all index definitions for all collections.
func GetAllIndexDefinitions() []IndexDefinition {
	var indexes []IndexDefinition

	indexes = append(indexes, GetUserIndexes()...)
	indexes = append(indexes, GetPostIndexes()...)
	indexes = append(indexes, GetCommentIndexes()...)
	indexes = append(indexes, GetCommentRefIndexes()...)

	return indexes
}

// GetUserIndexes returns index definitions for the users collection.
func GetUserIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: repo.CollectionUsers,
			Keys:       bson.D{{Key: "user_id", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: repo.CollectionUsers,
			Keys:       bson.D{{Key: "email", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
	}
}

// GetPostIndexes returns index definitions for the posts collection.
func GetPostIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: repo.CollectionPosts,
			Keys:       bson.D{{Key: "post_id", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			// Multikey index for array-contains category filtering.
			Collection: repo.CollectionPosts,
			Keys:       bson.D{{Key: "categories", Value: 1}},
		},
		{
			Collection: repo.CollectionPosts,
			Keys:       bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
}

// GetCommentIndexes returns index definitions for the comments collection.
func GetCommentIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: repo.CollectionComments,
			Keys:       bson.D{{Key: "post_id", Value: 1}, {Key: "comment_id", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: repo.CollectionComments,
			Keys:       bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
	}
}

// GetCommentRefIndexes returns index definitions for the comment_refs
// collection. The unique comment_id index backs the one-reference-per-
// comment invariant.
func GetCommentRefIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: repo.CollectionCommentRefs,
			Keys:       bson.D{{Key: "comment_id", Value: 1}},
			Options:    options.Index().SetUnique(true),
		},
		{
			Collection: repo.CollectionCommentRefs,
			Keys:       bson.D{{Key: "post_id", Value: 1}},
		},
	}
}
