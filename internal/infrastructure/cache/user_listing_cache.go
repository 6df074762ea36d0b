// Package cache provides the Redis-backed user listing cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	userapp "github.com/lllypuk/agora/internal/application/user"
	"github.com/lllypuk/agora/internal/domain/errs"
)

const (
	defaultKeyPrefix = "cache:user_listing:"
	defaultTTL       = 5 * time.Minute
)

// UserListingCache implements userapp.ListingCache on Redis.
type UserListingCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// UserListingCacheConfig contains configuration for UserListingCache.
type UserListingCacheConfig struct {
	Client    *redis.Client
	KeyPrefix string
	TTL       time.Duration
}

// NewUserListingCache creates a Redis-backed user listing cache.
func NewUserListingCache(cfg UserListingCacheConfig) *UserListingCache {
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &UserListingCache{
		client:    cfg.Client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached listing page. A miss is errs.ErrNotFound.
func (c *UserListingCache) Get(ctx context.Context, key string) ([]userapp.Listing, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read listing cache: %w", err)
	}

	var listings []userapp.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listing cache: %w", err)
	}
	return listings, nil
}

// Set stores a listing page under the key with the configured TTL.
func (c *UserListingCache) Set(ctx context.Context, key string, listings []userapp.Listing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to encode listing cache: %w", err)
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write listing cache: %w", err)
	}
	return nil
}

// Invalidate drops all cached listing pages under the prefix.
func (c *UserListingCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate listing cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan listing cache keys: %w", err)
	}
	return nil
}
