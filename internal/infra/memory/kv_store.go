package memory

import (
	"context"
	"sync"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// KVStore is an in-memory implementation of state.KeyValueStore with an
// optional byte capacity, so quota behavior can be exercised without a
// real capacity-limited backend.
type KVStore struct {
	capacity int64 // 0 means unlimited

	mu   sync.RWMutex
	used int64
	data map[string][]byte
}

var _ state.KeyValueStore = (*KVStore)(nil)

// NewKVStore builds a store limited to capacity bytes (0 = unlimited).
func NewKVStore(capacity int64) *KVStore {
	return &KVStore{
		capacity: capacity,
		data:     make(map[string][]byte),
	}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.used - int64(len(s.data[key])) + int64(len(value))
	if s.capacity > 0 && next > s.capacity {
		return domain.ErrQuotaExceeded
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	s.used = next
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used -= int64(len(s.data[key]))
	delete(s.data, key)
	return nil
}

func (s *KVStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *KVStore) Ping(_ context.Context) error {
	return nil
}
