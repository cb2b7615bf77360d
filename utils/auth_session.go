package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound means no cached session exists for the user.
var ErrSessionNotFound = errors.New("auth session not found")

// RedisSessionStore caches the hash of a user's current token.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: AuthCacheTTL}
}

func sessionKey(userID string) string {
	return AuthCachePrefix + userID
}

// Save stores tokenHash for userID, replacing any previous session.
func (s *RedisSessionStore) Save(ctx context.Context, userID, tokenHash string) error {
	if err := s.Client.Set(ctx, sessionKey(userID), tokenHash, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// Lookup returns the cached hash and refreshes its TTL.
func (s *RedisSessionStore) Lookup(ctx context.Context, userID string) (string, error) {
	hash, err := s.Client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read auth session: %w", err)
	}
	_ = s.Client.Expire(ctx, sessionKey(userID), s.TTL).Err()
	return hash, nil
}
