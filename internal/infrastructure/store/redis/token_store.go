package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/growthzi/dashboard/internal/core/ports"
)

const keyPrefix = "growthzi:dashboard:"

// TokenStore keeps the credential token in Redis under a single key.
// Key format: growthzi:dashboard:<key>
type TokenStore struct {
	client *redis.Client
	key    string
}

var _ ports.TokenStore = (*TokenStore)(nil)

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client, key string) *TokenStore {
	return &TokenStore{client: client, key: keyPrefix + key}
}

func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token get: %w", err)
	}
	return token, nil
}

// Set stores the token without expiry; the token carries its own.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("token set: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("token delete: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
