package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// SessionRegistry tracks the live logins (token IDs) of each user so that a
// token can be revoked before it expires.
type SessionRegistry interface {
	Register(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error
	IsActive(ctx context.Context, userID uuid.UUID, jti string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, jti string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// RedisSessionRegistry keeps one Redis set of token IDs per user. The set's
// TTL is refreshed to the token lifetime on every login.
type RedisSessionRegistry struct {
	rdb *redis.Client
}

// NewRedisSessionRegistry creates a RedisSessionRegistry.
func NewRedisSessionRegistry(rdb *redis.Client) *RedisSessionRegistry {
	return &RedisSessionRegistry{rdb: rdb}
}

// Register records jti as a live login of userID.
func (r *RedisSessionRegistry) Register(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	key := config.CacheKey.UserSessionKey(userID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, jti)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// IsActive reports whether jti is still a live login of userID.
func (r *RedisSessionRegistry) IsActive(ctx context.Context, userID uuid.UUID, jti string) (bool, error) {
	ok, err := r.rdb.SIsMember(ctx, config.CacheKey.UserSessionKey(userID), jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return ok, err
}

// Revoke ends one login.
func (r *RedisSessionRegistry) Revoke(ctx context.Context, userID uuid.UUID, jti string) error {
	return r.rdb.SRem(ctx, config.CacheKey.UserSessionKey(userID), jti).Err()
}

// RevokeAll ends every login of userID.
func (r *RedisSessionRegistry) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return r.rdb.Del(ctx, config.CacheKey.UserSessionKey(userID)).Err()
}
