package cache

import (
	"context"
	"time"

	redisclient "hypeindex/internal/adapters/redis"
)

// RedisStore keeps entries in Redis; expiry is handled by Redis TTLs
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore wraps a connected Redis client
func NewRedisStore(client *redisclient.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string, dest interface{}) error {
	return r.client.Get(ctx, key, dest)
}

func (r *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl)
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	return r.client.Delete(ctx, keys...)
}

func (r *RedisStore) Clear(ctx context.Context, prefix string) error {
	return r.client.DeleteMatching(ctx, prefix)
}

func (r *RedisStore) Health(ctx context.Context) error {
	return r.client.Health(ctx)
}
