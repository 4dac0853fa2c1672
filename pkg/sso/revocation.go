package sso

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RevocationStore remembers signed-out session token ids until the tokens expire
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocationStore keeps revocations in process memory.
// Entries live for the session max age, which outlasts any token they refer to.
type MemoryRevocationStore struct {
	revoked *expirable.LRU[string, struct{}]
}

// NewMemoryRevocationStore creates a store holding at most size revocations
func NewMemoryRevocationStore(size int, maxAge time.Duration) *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: expirable.NewLRU[string, struct{}](size, nil, maxAge),
	}
}

func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.revoked.Add(tokenID, struct{}{})
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked.Contains(tokenID), nil
}

// RedisRevocationStore shares revocations between console replicas
type RedisRevocationStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisRevocationStore creates a store writing keys under prefix
func NewRedisRevocationStore(client *redis.Client, prefix string) *RedisRevocationStore {
	if prefix == "" {
		prefix = "console:revoked"
	}
	return &RedisRevocationStore{redis: client, prefix: prefix}
}

// NewRedisClient connects to redisURL and checks the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (s *RedisRevocationStore) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, tokenID)
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection
func (s *RedisRevocationStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
