// Package redis implements session.Store on top of a Redis server.
//
// This is the primary production backend: SET with expiration, GET, and DEL
// are the only commands used, and Redis's own TTL handling is the sole
// authority on token expiry.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"filevault/pkg/session"
)

const connectTimeout = 5 * time.Second

// RedisSessionStore implements session.Store backed by Redis.
type RedisSessionStore struct {
	client *goredis.Client
}

// NewRedisSessionStore connects to Redis and returns a ready store. The
// connection is verified with a ping so callers get a ready-or-failed
// client.
func NewRedisSessionStore(ctx context.Context, addr string, db int) (*RedisSessionStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisSessionStore{client: client}, nil
}

// Issue generates a random token and stores auth_<token> -> userID with the
// fixed session TTL.
func (s *RedisSessionStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	if err := s.client.Set(ctx, session.KeyPrefix+token, userID, session.TokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user ID bound to token. Absence, including
// post-expiry absence, is session.ErrNotFound.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, session.KeyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// Revoke deletes the token. DEL on an absent key succeeds, so revocation is
// idempotent for free.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, session.KeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Alive reports whether the client handle exists. No PING is sent.
func (s *RedisSessionStore) Alive() bool {
	return s.client != nil
}

// Close closes the client connection pool.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
