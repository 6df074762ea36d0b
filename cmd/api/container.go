// Package main provides the API server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/agora/internal/application/authz"
	commentapp "github.com/lllypuk/agora/internal/application/comment"
	postapp "github.com/lllypuk/agora/internal/application/post"
	userapp "github.com/lllypuk/agora/internal/application/user"
	"github.com/lllypuk/agora/internal/config"
	httphandler "github.com/lllypuk/agora/internal/handler/http"
	"github.com/lllypuk/agora/internal/infrastructure/auth"
	"github.com/lllypuk/agora/internal/infrastructure/cache"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
	"github.com/lllypuk/agora/internal/infrastructure/metrics"
	mongodbinfra "github.com/lllypuk/agora/internal/infrastructure/mongodb"
	"github.com/lllypuk/agora/internal/infrastructure/repository/mongodb"
)

// Container initialization timeouts.
const (
	containerInitTimeout   = 30 * time.Second
	redisPingTimeout       = 5 * time.Second
	mongoDisconnectTimeout = 10 * time.Second
)

// Container holds all application dependencies and manages their lifecycle.
// It implements httpserver.HealthChecker for unified health endpoint support.
type Container struct {
	// Configuration
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	MongoDB     *mongo.Client
	MongoDBName string
	Redis       *redis.Client
	Tokens      *auth.TokenManager
	HTTPMetrics *metrics.HTTPMetrics

	// Repositories
	UserRepo       *mongodb.MongoUserRepository
	PostRepo       *mongodb.MongoPostRepository
	CommentRepo    *mongodb.MongoCommentRepository
	CommentRefRepo *mongodb.MongoCommentRefRepository
	ListingCache   *cache.UserListingCache

	// Services
	PostService    *postapp.Service
	CommentService *commentapp.Service
	UserService    *userapp.Service

	// HTTP Handlers
	AuthHandler    *httphandler.AuthHandler
	UserHandler    *httphandler.UserHandler
	PostHandler    *httphandler.PostHandler
	CommentHandler *httphandler.CommentHandler
}

// Ensure Container implements httpserver.HealthChecker.
var _ httpserver.HealthChecker = (*Container)(nil)

// ContainerOption configures the Container.
type ContainerOption func(*Container)

// WithLogger sets a custom logger for the container.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config, opts ...ContainerOption) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.setupInfrastructure(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}

	c.setupRepositories()
	c.setupServices()
	c.setupHTTPHandlers()

	if err := c.validateWiring(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("wiring validation failed: %w", err)
	}

	return c, nil
}

// validateWiring ensures all required dependencies are properly initialized.
func (c *Container) validateWiring() error {
	var errs []error

	if c.MongoDB == nil {
		errs = append(errs, errors.New("mongodb client not initialized"))
	}
	if c.Redis == nil {
		errs = append(errs, errors.New("redis client not initialized"))
	}
	if c.Tokens == nil {
		errs = append(errs, errors.New("token manager not initialized"))
	}
	if c.AuthHandler == nil {
		errs = append(errs, errors.New("auth handler not initialized"))
	}
	if c.PostHandler == nil {
		errs = append(errs, errors.New("post handler not initialized"))
	}
	if c.CommentHandler == nil {
		errs = append(errs, errors.New("comment handler not initialized"))
	}
	if c.UserHandler == nil {
		errs = append(errs, errors.New("user handler not initialized"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// setupInfrastructure initializes MongoDB, Redis, tokens and metrics.
func (c *Container) setupInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), containerInitTimeout)
	defer cancel()

	if err := c.setupMongoDB(ctx); err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}

	if err := c.setupRedis(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	tokens, err := auth.NewTokenManager(auth.TokenManagerConfig{
		Secret: c.Config.Auth.JWTSecret,
		TTL:    c.Config.Auth.TokenTTL,
		Leeway: c.Config.Auth.Leeway,
	})
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	c.Tokens = tokens

	c.HTTPMetrics = metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	return nil
}

// setupMongoDB initializes the MongoDB client and creates indexes.
func (c *Container) setupMongoDB(ctx context.Context) error {
	clientOpts := options.Client().
		ApplyURI(c.Config.MongoDB.URI).
		SetMaxPoolSize(c.Config.MongoDB.MaxPoolSize)

	client, connectErr := mongo.Connect(clientOpts)
	if connectErr != nil {
		return fmt.Errorf("failed to connect: %w", connectErr)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.MongoDB = client
	c.MongoDBName = c.Config.MongoDB.Database

	c.Logger.InfoContext(ctx, "connected to MongoDB",
		slog.String("database", c.Config.MongoDB.Database),
	)

	db := client.Database(c.Config.MongoDB.Database)
	indexCtx, indexCancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer indexCancel()

	if indexErr := mongodbinfra.CreateAllIndexes(indexCtx, db); indexErr != nil {
		return fmt.Errorf("failed to create indexes: %w", indexErr)
	}

	c.Logger.InfoContext(ctx, "MongoDB indexes created successfully")

	return nil
}

// setupRedis initializes the Redis client.
func (c *Container) setupRedis(ctx context.Context) error {
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
		PoolSize: c.Config.Redis.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := c.Redis.Ping(pingCtx).Err(); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.Logger.InfoContext(ctx, "connected to Redis",
		slog.String("addr", c.Config.Redis.Addr),
	)

	return nil
}

// setupRepositories initializes all repository implementations.
func (c *Container) setupRepositories() {
	db := c.MongoDB.Database(c.MongoDBName)

	c.UserRepo = mongodb.NewMongoUserRepository(
		db.Collection(mongodb.CollectionUsers),
		mongodb.WithUserRepoLogger(c.Logger),
	)
	c.PostRepo = mongodb.NewMongoPostRepository(
		db.Collection(mongodb.CollectionPosts),
		mongodb.WithPostRepoLogger(c.Logger),
	)
	c.CommentRepo = mongodb.NewMongoCommentRepository(
		db.Collection(mongodb.CollectionComments),
		mongodb.WithCommentRepoLogger(c.Logger),
	)
	c.CommentRefRepo = mongodb.NewMongoCommentRefRepository(
		db.Collection(mongodb.CollectionCommentRefs),
		mongodb.WithCommentRefRepoLogger(c.Logger),
	)

	c.ListingCache = cache.NewUserListingCache(cache.UserListingCacheConfig{
		Client: c.Redis,
	})

	c.Logger.Debug("repositories initialized")
}

// setupServices wires the application services.
func (c *Container) setupServices() {
	policy := authz.NewPolicy()

	c.CommentService = commentapp.NewService(
		c.CommentRepo,
		c.CommentRefRepo,
		c.PostRepo,
		policy,
		commentapp.WithLogger(c.Logger),
	)

	c.PostService = postapp.NewService(
		c.PostRepo,
		c.CommentService,
		policy,
		postapp.WithLogger(c.Logger),
	)

	c.UserService = userapp.NewService(
		c.UserRepo,
		c.ListingCache,
		c.Tokens,
		userapp.WithLogger(c.Logger),
	)

	c.Logger.Debug("application services initialized")
}

// setupHTTPHandlers wires the HTTP handlers.
func (c *Container) setupHTTPHandlers() {
	c.AuthHandler = httphandler.NewAuthHandler(c.UserService)
	c.UserHandler = httphandler.NewUserHandler(c.UserService)
	c.PostHandler = httphandler.NewPostHandler(c.PostService)
	c.CommentHandler = httphandler.NewCommentHandler(c.CommentService)
}

// Close releases all container resources.
func (c *Container) Close() error {
	c.Logger.Info("closing container resources...")

	var errs []error

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		} else {
			c.Logger.Debug("redis connection closed")
		}
	}

	if c.MongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer cancel()

		if err := c.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		} else {
			c.Logger.Debug("mongodb connection closed")
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.Logger.Info("all container resources closed")
	return nil
}

// IsReady implements httpserver.HealthChecker.
func (c *Container) IsReady(ctx context.Context) bool {
	if c.MongoDB == nil {
		return false
	}
	if err := c.MongoDB.Ping(ctx, nil); err != nil {
		c.Logger.WarnContext(ctx, "mongodb health check failed", slog.String("error", err.Error()))
		return false
	}

	if c.Redis == nil {
		return false
	}
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		c.Logger.WarnContext(ctx, "redis health check failed", slog.String("error", err.Error()))
		return false
	}

	return true
}

// GetHealthStatus implements httpserver.HealthChecker.
func (c *Container) GetHealthStatus(ctx context.Context) []httpserver.ComponentStatus {
	var statuses []httpserver.ComponentStatus

	mongoStatus := httpserver.ComponentStatus{Name: "mongodb", Status: httpserver.StatusHealthy}
	if c.MongoDB == nil {
		mongoStatus.Status = httpserver.StatusUnhealthy
		mongoStatus.Message = "client not initialized"
	} else if err := c.MongoDB.Ping(ctx, nil); err != nil {
		mongoStatus.Status = httpserver.StatusUnhealthy
		mongoStatus.Message = err.Error()
	}
	statuses = append(statuses, mongoStatus)

	redisStatus := httpserver.ComponentStatus{Name: "redis", Status: httpserver.StatusHealthy}
	if c.Redis == nil {
		redisStatus.Status = httpserver.StatusUnhealthy
		redisStatus.Message = "client not initialized"
	} else if err := c.Redis.Ping(ctx).Err(); err != nil {
		// The user listing degrades to MongoDB reads without Redis
		redisStatus.Status = httpserver.StatusDegraded
		redisStatus.Message = err.Error()
	}
	statuses = append(statuses, redisStatus)

	return statuses
}
