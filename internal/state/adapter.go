// Package state implements the persistence adapter and the mutable state
// tree that owns the user's progress snapshot.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// KeyValueStore abstracts the durable key/value backend (in-memory,
// Redis, etc). Get returns (nil, nil) on a miss; Set returns
// domain.ErrQuotaExceeded when the store rejects the write for capacity.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// UsageReport describes how full the durable store is.
type UsageReport struct {
	UsedBytes         int64   `json:"usedBytes"`
	EstimatedCapacity int64   `json:"estimatedCapacity"`
	Percentage        float64 `json:"percentage"`
}

// Adapter is the persistence adapter: namespaced keys, JSON-encoded
// values, and an in-memory fallback that keeps process-lifetime state
// intact when the durable store rejects or is unavailable.
type Adapter struct {
	store     KeyValueStore
	prefix    string
	capacity  int64
	logger    *slog.Logger
	available bool

	mu       sync.RWMutex
	fallback map[string][]byte
}

// NewAdapter probes the durable store once; if the probe fails, every
// write silently lands in the fallback only. A nil store is a valid
// fallback-only configuration.
func NewAdapter(ctx context.Context, store KeyValueStore, prefix string, capacity int64, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		store:    store,
		prefix:   prefix,
		capacity: capacity,
		logger:   logger.With(slog.String("component", "persistence_adapter")),
		fallback: make(map[string][]byte),
	}
	if store != nil {
		if err := store.Ping(ctx); err != nil {
			a.logger.Warn("durable store unavailable, using in-memory fallback", "error", err)
		} else {
			a.available = true
		}
	}
	return a
}

func (a *Adapter) key(key string) string {
	return a.prefix + key
}

// Get decodes the stored value into out and reports whether it was found.
// Read failures never propagate: a miss, an IO error or a decode error
// all yield false with a log line.
func (a *Adapter) Get(ctx context.Context, key string, out any) bool {
	namespaced := a.key(key)

	a.mu.RLock()
	data, inFallback := a.fallback[namespaced]
	a.mu.RUnlock()

	if !inFallback && a.available {
		stored, err := a.store.Get(ctx, namespaced)
		if err != nil {
			a.logger.Warn("read failed", "key", key, "error", err)
			return false
		}
		data = stored
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		a.logger.Warn("stored value is not valid JSON", "key", key, "error", err)
		return false
	}
	return true
}

// Set JSON-encodes the value and writes it durably. When the durable
// store rejects for capacity the value is kept in the fallback and
// domain.ErrQuotaExceeded surfaces to the caller; when the store is
// unavailable the fallback write is silent.
func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	namespaced := a.key(key)

	if !a.available {
		a.writeFallback(namespaced, data)
		return nil
	}
	if err := a.store.Set(ctx, namespaced, data); err != nil {
		a.writeFallback(namespaced, data)
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return fmt.Errorf("set %s: %w", key, domain.ErrQuotaExceeded)
		}
		a.logger.Warn("durable write failed, value kept in fallback", "key", key, "error", err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	// Durable write succeeded; the fallback copy would now shadow reads.
	a.mu.Lock()
	delete(a.fallback, namespaced)
	a.mu.Unlock()
	return nil
}

func (a *Adapter) writeFallback(namespaced string, data []byte) {
	a.mu.Lock()
	a.fallback[namespaced] = data
	a.mu.Unlock()
}

// Remove deletes the key from both the durable store and the fallback.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	namespaced := a.key(key)
	a.mu.Lock()
	delete(a.fallback, namespaced)
	a.mu.Unlock()
	if !a.available {
		return nil
	}
	if err := a.store.Delete(ctx, namespaced); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Has reports whether the key resolves to a stored value.
func (a *Adapter) Has(ctx context.Context, key string) bool {
	var raw json.RawMessage
	return a.Get(ctx, key, &raw)
}

// Clear removes every key within the adapter's namespace.
func (a *Adapter) Clear(ctx context.Context) error {
	a.mu.Lock()
	a.fallback = make(map[string][]byte)
	a.mu.Unlock()
	if !a.available {
		return nil
	}
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, a.prefix) {
			continue
		}
		if err := a.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// UsageReport sums the bytes stored under the adapter's namespace against
// the configured capacity estimate.
func (a *Adapter) UsageReport(ctx context.Context) UsageReport {
	var used int64

	seen := make(map[string]bool)
	a.mu.RLock()
	for key, data := range a.fallback {
		used += int64(len(data))
		seen[key] = true
	}
	a.mu.RUnlock()

	if a.available {
		if keys, err := a.store.Keys(ctx); err == nil {
			sort.Strings(keys)
			for _, key := range keys {
				if !strings.HasPrefix(key, a.prefix) || seen[key] {
					continue
				}
				if data, err := a.store.Get(ctx, key); err == nil {
					used += int64(len(data))
				}
			}
		}
	}

	report := UsageReport{UsedBytes: used, EstimatedCapacity: a.capacity}
	if a.capacity > 0 {
		report.Percentage = float64(used) / float64(a.capacity) * 100
	}
	return report
}

// Available reports whether the durable store passed its init probe.
func (a *Adapter) Available() bool {
	return a.available
}
