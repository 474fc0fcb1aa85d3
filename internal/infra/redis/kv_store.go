package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// KVStore is a Redis-backed implementation of state.KeyValueStore.
// A server configured with maxmemory and a noeviction policy rejects
// writes with an OOM error, which maps to domain.ErrQuotaExceeded.
type KVStore struct {
	client *redis.Client
}

var _ state.KeyValueStore = (*KVStore)(nil)

// NewKVStore wraps an existing client.
func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{client: client}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.client.Set(ctx, key, value, 0).Err()
	if err == nil {
		return nil
	}
	if isOOM(err) {
		return fmt.Errorf("redis set: %w", domain.ErrQuotaExceeded)
	}
	return fmt.Errorf("redis set: %w", err)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, "*").Result()
	if err != nil {
		return nil, fmt.Errorf("redis keys: %w", err)
	}
	return keys, nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// isOOM matches the server error raised when maxmemory is exhausted.
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM")
}
