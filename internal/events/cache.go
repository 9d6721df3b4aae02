package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asamblea-eventos/backend/internal/models"
)

const cacheKeyPrefix = "evento:publico:"

// Cache stores public event descriptors by link token.
type Cache interface {
	Get(ctx context.Context, token string) (*models.PublicEvent, bool, error)
	Set(ctx context.Context, token string, ev models.PublicEvent) error
	Invalidate(ctx context.Context, token string) error
}

// RedisCache is a Cache backed by Redis with a fixed TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a descriptor cache. ttl <= 0 defaults to one minute.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, token string) (*models.PublicEvent, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ev models.PublicEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, false, err
	}
	return &ev, true, nil
}

func (c *RedisCache) Set(ctx context.Context, token string, ev models.PublicEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+token, raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, cacheKeyPrefix+token).Err()
}
