package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSONStore keeps values of type T as JSON under a common key prefix.
type JSONStore[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewJSONStore returns a store writing keys as prefix+key. A zero ttl stores
// values without expiry.
func NewJSONStore[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *JSONStore[T] {
	return &JSONStore[T]{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the full Redis key for key.
func (s *JSONStore[T]) Key(key string) string {
	return s.prefix + key
}

// Get loads the value for key. A missing key returns ErrNotFound.
func (s *JSONStore[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	if key == "" {
		return v, ErrEmptyKey
	}
	data, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

// Set stores v under key and refreshes its expiry.
func (s *JSONStore[T]) Set(ctx context.Context, key string, v T) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.Key(key), data, s.ttl).Err()
}

// Delete removes key. Deleting a missing key is not an error.
func (s *JSONStore[T]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.client.Del(ctx, s.Key(key)).Err()
}
