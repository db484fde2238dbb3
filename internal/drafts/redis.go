package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the subset of the go-redis client the store needs
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps drafts in Redis with an optional expiry
type RedisStore struct {
	client RedisKV
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store over client. A zero ttl keeps drafts until deleted.
func NewRedisStore(client RedisKV, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "drafts:", ttl: ttl}
}

// NewRedisClient connects to the Redis server at redisURL (redis:// or rediss://) and pings it
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get returns the stored value or nil when the key is absent
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Key: key, Cause: err}
	}
	return data, nil
}

// Set overwrites the value under key and refreshes its expiry
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return &StoreError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Delete removes key
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return &StoreError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}
