package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/ports"
)

// RedisDistanceCache is a Redis-backed leg cache for deployments that
// share resolver results across instances. Entries expire via TTL
// instead of LRU bookkeeping.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDistanceCache{client: client, ttl: ttl}
}

func (c *RedisDistanceCache) redisKey(key string) string {
	return "leg:" + key
}

// Get returns the cached result for key, or nil on miss.
func (c *RedisDistanceCache) Get(ctx context.Context, key string) (*ports.DistanceResult, error) {
	if c.client == nil {
		return nil, errors.New("redis distance cache: client is nil")
	}

	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get distance cache: redis get %q: %w", key, err)
	}

	var r ports.DistanceResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("get distance cache: decode %q: %w", key, err)
	}
	return &r, nil
}

// Put stores the result for key with the configured TTL.
func (c *RedisDistanceCache) Put(ctx context.Context, key string, result ports.DistanceResult) error {
	if c.client == nil {
		return errors.New("redis distance cache: client is nil")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("insert distance cache: encode %q: %w", key, err)
	}

	if err := c.client.Set(ctx, c.redisKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert distance cache: redis set %q: %w", key, err)
	}
	return nil
}
