package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache is the multi-instance cache backend, selected when REDIS_ADDR is
// set. The value itself is stored without expiry; a companion marker key
// carries the TTL, so an expired marker means "present but stale" rather than
// evicted.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both read as "no entry"; the caller
		// regenerates either way
		return nil, false, false
	}

	fresh, err := c.client.Exists(ctx, freshKey(key)).Result()
	if err != nil {
		return val, true, true
	}
	return val, fresh == 0, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	c.client.Set(ctx, key, value, 0)
	c.client.Set(ctx, freshKey(key), "1", c.ttl)
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	c.client.Del(ctx, key, freshKey(key))
}

func freshKey(key string) string {
	return key + ":fresh"
}
