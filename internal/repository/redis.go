package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the store uses
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisTokenStore keeps tokens in Redis under prefix + scope.
// A non-zero TTL bounds how long a forgotten login survives.
type RedisTokenStore struct {
	client redisClient
	key    string
	ttl    time.Duration
}

// RedisTokenStoreConfig holds configuration for the Redis store
type RedisTokenStoreConfig struct {
	KeyPrefix string
	Scope     string
	TTL       time.Duration
}

// NewRedisTokenStore creates a Redis-backed token store
func NewRedisTokenStore(client redisClient, cfg RedisTokenStoreConfig) *RedisTokenStore {
	scope := cfg.Scope
	if scope == "" {
		scope = DefaultScope
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "vidgram:session:"
	}
	return &RedisTokenStore{
		client: client,
		key:    prefix + scope,
		ttl:    cfg.TTL,
	}
}

// NewRedisClient opens a client for the given address
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Get returns the stored token, or "" if none
func (s *RedisTokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// Set replaces the token
func (s *RedisTokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear removes the token
func (s *RedisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
