package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/agora/internal/domain/errs"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// MongoUserRepository implements userapp.Repository.
type MongoUserRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// UserRepoOption configures MongoUserRepository.
type UserRepoOption func(*MongoUserRepository)

// WithUserRepoLogger sets the logger for the user repository.
func WithUserRepoLogger(logger *slog.Logger) UserRepoOption {
	return func(r *MongoUserRepository) {
		r.logger = logger
	}
}

// NewMongoUserRepository creates a new MongoDB user repository.
func NewMongoUserRepository(collection *mongo.Collection, opts ...UserRepoOption) *MongoUserRepository {
	r := &MongoUserRepository{
		collection: collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByID finds a user by ID.
func (r *MongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"user_id": id.String()}
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find user by ID",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "user")
	}

	return documentToUser(&doc)
}

// FindByEmail finds a user by email address.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	if email == "" {
		return nil, errs.ErrInvalidInput
	}

	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "user")
	}

	return documentToUser(&doc)
}

// ExistsByEmail reports whether a user with the email is registered.
func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errs.ErrInvalidInput
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, HandleMongoError(err, "user")
	}
	return count > 0, nil
}

// Save persists a new user. The unique index on email turns duplicate
// registrations into errs.ErrAlreadyExists.
func (r *MongoUserRepository) Save(ctx context.Context, u *userdomain.User) error {
	if u == nil || u.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.collection.InsertOne(ctx, userToDocument(u))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to save user",
			slog.String("user_id", u.ID().String()),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, "user")
}

// Update persists profile, role and password changes. The unique email
// index turns a conflicting email into errs.ErrAlreadyExists.
func (r *MongoUserRepository) Update(ctx context.Context, u *userdomain.User) error {
	if u == nil || u.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"user_id": u.ID().String()}
	update := bson.M{"$set": bson.M{
		"username":      u.Username(),
		"email":         u.Email(),
		"password_hash": u.PasswordHash(),
		"role":          string(u.Role()),
		"updated_at":    u.UpdatedAt(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to update user",
			slog.String("user_id", u.ID().String()),
			slog.String("error", err.Error()),
		)
		return HandleMongoError(err, "user")
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a user.
func (r *MongoUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if id.IsZero() {
		return errs.ErrInvalidInput
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": id.String()})
	if err != nil {
		return HandleMongoError(err, "user")
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns users ordered by creation time.
func (r *MongoUserRepository) List(ctx context.Context, offset, limit int) ([]*userdomain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, FindSorted(offset, limit, "created_at", 1))
	if err != nil {
		return nil, HandleMongoError(err, "users")
	}
	return decodeAll(ctx, cursor, documentToUser, "users")
}

// userDocument represents the user document structure in MongoDB.
type userDocument struct {
	UserID       string    `bson:"user_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func userToDocument(u *userdomain.User) userDocument {
	return userDocument{
		UserID:       u.ID().String(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Role:         string(u.Role()),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func documentToUser(doc *userDocument) (*userdomain.User, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	id, err := uuid.ParseUUID(doc.UserID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	role, err := userdomain.ParseRole(doc.Role)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	return userdomain.Reconstruct(
		id,
		doc.Username,
		doc.Email,
		doc.PasswordHash,
		role,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
