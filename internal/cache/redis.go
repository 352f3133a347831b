package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps the entry in Redis so it survives restarts and is shared
// between replicas. SET with expiry replaces the whole value atomically.
type redisStore struct {
	redisClient *redis.Client
	key         string
}

// NewRedisStore returns a Store backed by Redis.
func NewRedisStore(redisClient *redis.Client) Store {
	return &redisStore{
		redisClient: redisClient,
		key:         "solutions:categories",
	}
}

func (s *redisStore) Get(ctx context.Context) (*Entry, error) {
	val, err := s.redisClient.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached categories: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached categories: %w", err)
	}

	return &entry, nil
}

func (s *redisStore) Set(ctx context.Context, entry *Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode categories for cache: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache categories: %w", err)
	}

	return nil
}

func (s *redisStore) Delete(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear category cache: %w", err)
	}
	return nil
}
