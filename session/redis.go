package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "resdeck:session"

// RedisBackend persists the session record as a single Redis string value.
// Useful when several tools on different hosts should share one login, or
// when the session must outlive the local filesystem.
type RedisBackend struct {
	client redis.UniversalClient
	key    string
}

// NewRedisBackend returns a backend storing the record under key. An empty
// key selects "resdeck:session".
func NewRedisBackend(client redis.UniversalClient, key string) *RedisBackend {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

// Read implements [Backend].
func (r *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis session read: %w", err)
	}
	return data, nil
}

// Write implements [Backend]. No TTL: the tokens inside carry their own
// expiry and a stale record is rejected at validation time anyway.
func (r *RedisBackend) Write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis session write: %w", err)
	}
	return nil
}

// Delete implements [Backend].
func (r *RedisBackend) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis session delete: %w", err)
	}
	return nil
}
