package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is a small JSON cache on top of Redis, used by the
// exchange-rate service.
type CacheService struct {
	client redis.Cmdable
}

func NewCacheService(client redis.Cmdable) *CacheService {
	return &CacheService{client: client}
}

// Get получает значение из кэша
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

// Set сохраняет значение в кэш
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.client.Set(ctx, key, string(data), ttl).Err()
}
