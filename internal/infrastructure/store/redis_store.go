package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the shared TTL store consumed by the OTP and session services.
// Per-key operations are atomic; nothing here spans keys transactionally.
type KV interface {
	// Get returns the raw payload for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Delete removes all given keys in a single call.
	Delete(ctx context.Context, keys ...string) error
}

// RedisStore implements KV over go-redis.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store get %q: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("store delete: %w", err)
	}
	return nil
}

// GetValue fetches and decodes an expiring wrapper. Absent keys yield
// (nil, nil); decode failures are surfaced, not swallowed.
func GetValue[T comparable](ctx context.Context, kv KV, key string) (*Value[T], error) {
	data, err := kv.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var v Value[T]
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode value at %q: %w", key, err)
	}
	return &v, nil
}

// SetValue encodes an expiring wrapper and stores it under key. The
// store-level TTL mirrors the wrapper's own window so Redis reclaims
// the entry shortly after it stops being valid.
func SetValue[T comparable](ctx context.Context, kv KV, key string, v *Value[T]) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value at %q: %w", key, err)
	}
	return kv.Set(ctx, key, data, time.Duration(v.TTL)*time.Second)
}
