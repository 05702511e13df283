package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// PresignCache reuses presigned URLs for half of their lifetime, so a link handed out from the
// cache is always valid for at least ttl/2.
type PresignCache struct {
	ObjectStore
	rdb redisClient
}

func NewPresignCache(store ObjectStore, rdb redisClient) *PresignCache {
	return &PresignCache{ObjectStore: store, rdb: rdb}
}

func presignCacheKey(key string, ttl time.Duration) string {
	return fmt.Sprintf("presign:%d:%s", int64(ttl/time.Second), key)
}

func (c *PresignCache) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	cacheKey := presignCacheKey(key, ttl)

	url, err := c.rdb.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		return url, nil
	case errors.Is(err, redis.Nil):
	default:
		// Redis is an optimisation only.
		slog.Warn("failed to read presigned url from redis", "key", key, "error", err)
	}

	url, err = c.ObjectStore.PresignGet(ctx, key, ttl)
	if err != nil {
		return "", err
	}

	if ttl/2 > 0 {
		if err := c.rdb.Set(ctx, cacheKey, url, ttl/2).Err(); err != nil {
			slog.Warn("failed to cache presigned url", "key", key, "error", err)
		}
	}
	return url, nil
}
