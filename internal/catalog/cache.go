package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"autoshop/pkg/logging"
)

const cacheKey = "catalog:services"

// Lister provides the service catalog.
type Lister interface {
	List(ctx context.Context) ([]Service, error)
}

// Cache is a Redis read-through cache in front of the catalog repository.
// With a nil Redis client it degrades to a pass-through.
type Cache struct {
	source Lister
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache creates a catalog cache.
func NewCache(source Lister, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{source: source, redis: redisClient, ttl: ttl, logger: logger}
}

// List returns the catalog, served from Redis when fresh.
func (c *Cache) List(ctx context.Context) ([]Service, error) {
	if c.redis == nil {
		return c.source.List(ctx)
	}

	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var services []Service
		if jsonErr := json.Unmarshal(data, &services); jsonErr == nil {
			return services, nil
		}
		c.logger.Warn("catalog cache entry corrupt, reloading", "key", cacheKey)
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", "error", err)
	}

	services, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(services); err == nil {
		if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return services, nil
}

// Invalidate drops the cached catalog, forcing the next List to reload.
func (c *Cache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidate failed", "error", err)
	}
}
