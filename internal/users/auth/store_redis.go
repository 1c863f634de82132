// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/constants"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/ctxutil"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
)

// # User Cache

// UserCache stores user records by ID for a limited time.
type UserCache interface {
	// Get returns (nil, false, nil) on a miss.
	Get(ctx context.Context, id string) (*User, bool, error)
	Set(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// RedisUserCache implements [UserCache] using Redis.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUserCache creates a new Redis-backed UserCache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: ttl}
}

// cachedUser is the wire form of a cached [User]. It has no password hash.
type cachedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func encodeCachedUser(user *User) ([]byte, error) {
	return json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	})
}

// decodeCachedUser hydrates a read-only [User] from its wire form.
func decodeCachedUser(payload []byte) (*User, error) {
	var record cachedUser
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}

	return &User{
		ID:        record.ID,
		Username:  record.Username,
		Role:      sec.UserRole(record.Role),
		CreatedAt: record.CreatedAt,
		readOnly:  true,
	}, nil
}

func userCacheKey(id string) string {
	return constants.RedisPrefixUser + id
}

/*
Get retrieves a cached user.

Returns:
  - *User: Hydrated entity, nil on a miss
  - bool: whether the key was present
  - error: connectivity or decoding failures
*/
func (cache *RedisUserCache) Get(ctx context.Context, id string) (*User, bool, error) {
	payload, err := cache.client.Get(ctx, userCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_user_cache_get_failed: %w", err)
	}

	user, err := decodeCachedUser(payload)
	if err != nil {
		return nil, false, fmt.Errorf("redis_user_cache_decode_failed: %w", err)
	}

	return user, true, nil
}

// Set stores user under its ID with the configured TTL.
func (cache *RedisUserCache) Set(ctx context.Context, user *User) error {
	payload, err := encodeCachedUser(user)
	if err != nil {
		return fmt.Errorf("redis_user_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, userCacheKey(user.ID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_user_cache_set_failed: %w", err)
	}

	return nil
}

// Delete removes the cached entry for id.
func (cache *RedisUserCache) Delete(ctx context.Context, id string) error {
	if err := cache.client.Del(ctx, userCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_user_cache_delete_failed: %w", err)
	}
	return nil
}

// # Read-through Repository

// CachedUserRepository decorates a [UserRepository] with a read-through
// cache on FindByID, the lookup every bearer-token request performs.
//
// Password hashes never reach the cache, and a cache hit is returned as a
// read-only record. Cache failures are logged and fall back to the wrapped
// repository.
type CachedUserRepository struct {
	UserRepository
	cache UserCache
}

// NewCachedUserRepository wraps repository with cache.
func NewCachedUserRepository(repository UserRepository, cache UserCache) *CachedUserRepository {
	return &CachedUserRepository{UserRepository: repository, cache: cache}
}

// FindByID serves from the cache when possible and fills it on a miss.
func (repository *CachedUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	logger := ctxutil.GetLogger(ctx)

	user, found, err := repository.cache.Get(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "user_cache_get_failed", slog.String("user_id", id), slog.Any("error", err))
	}
	if found {
		user.readOnly = true
		return user, nil
	}

	user, err = repository.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := repository.cache.Set(ctx, user.cacheEntry()); err != nil {
		logger.WarnContext(ctx, "user_cache_set_failed", slog.String("user_id", id), slog.Any("error", err))
	}

	return user, nil
}

// Update writes through and invalidates the cached entry.
func (repository *CachedUserRepository) Update(ctx context.Context, user *User) error {
	if err := repository.UserRepository.Update(ctx, user); err != nil {
		return err
	}

	if err := repository.cache.Delete(ctx, user.ID); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "user_cache_delete_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	return nil
}
