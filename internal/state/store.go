package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

const (
	// saveKey is the single key the state tree autosaves under.
	saveKey = "app-state"
	// Wildcard subscribes to every path.
	Wildcard = "*"
	// SignalQuotaExceeded is set when an autosave was dropped because the
	// durable store is full. UI layers subscribe to it to degrade.
	SignalQuotaExceeded = "system.storageQuotaExceeded"
	// progressRoot is the subtree kept in the minimal autosave projection.
	progressRoot = "progress"
)

// Listener observes one path; it receives the new and the previous value.
type Listener func(newValue, oldValue any)

// Store is the process-wide mutable state tree: dotted-path get/set,
// subscribe/notify and autosave through the persistence adapter. There is
// a single logical writer; the mutex only guards against incidental
// concurrent reads.
type Store struct {
	adapter *Adapter
	logger  *slog.Logger

	mu        sync.RWMutex
	root      map[string]any
	listeners map[string][]*registration
}

// registration wraps a listener so unsubscribe can remove it by identity.
type registration struct {
	fn Listener
}

// NewStore builds the store and rehydrates the tree from the adapter.
func NewStore(ctx context.Context, adapter *Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		adapter:   adapter,
		logger:    logger.With(slog.String("component", "state_store")),
		root:      make(map[string]any),
		listeners: make(map[string][]*registration),
	}
	if adapter != nil {
		var saved map[string]any
		if adapter.Get(ctx, saveKey, &saved) && saved != nil {
			s.root = saved
		}
	}
	return s
}

// Get traverses the dotted path; an empty path returns the whole tree.
// Any missing intermediate yields nil.
func (s *Store) Get(path string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if path == "" {
		return s.root
	}
	return lookup(s.root, strings.Split(path, "."))
}

func lookup(node map[string]any, segments []string) any {
	current := any(node)
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// Set writes the leaf, creating intermediate objects as needed, notifies
// exact-path listeners then wildcard listeners, and autosaves. Listener
// panics are isolated; they never abort the write or later listeners.
// The returned error is the autosave outcome (domain.ErrQuotaExceeded
// when even the minimal projection could not be written).
func (s *Store) Set(ctx context.Context, path string, value any) error {
	if path == "" {
		return nil
	}

	s.mu.Lock()
	segments := strings.Split(path, ".")
	node := s.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	leaf := segments[len(segments)-1]
	oldValue := node[leaf]
	node[leaf] = value

	exact := append([]*registration(nil), s.listeners[path]...)
	wildcard := append([]*registration(nil), s.listeners[Wildcard]...)
	s.mu.Unlock()

	for _, reg := range exact {
		s.invoke(path, reg.fn, value, oldValue)
	}
	for _, reg := range wildcard {
		s.invoke(path, reg.fn, value, oldValue)
	}

	return s.autosave(ctx)
}

func (s *Store) invoke(path string, listener Listener, newValue, oldValue any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("listener panicked", "path", path, "panic", r)
		}
	}()
	listener(newValue, oldValue)
}

// Subscribe registers a listener for a dotted path (or the wildcard) and
// returns its unsubscribe function. Listeners fire in registration order.
func (s *Store) Subscribe(path string, listener Listener) func() {
	reg := &registration{fn: listener}
	s.mu.Lock()
	s.listeners[path] = append(s.listeners[path], reg)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		registered := s.listeners[path]
		for i, candidate := range registered {
			if candidate == reg {
				s.listeners[path] = append(registered[:i:i], registered[i+1:]...)
				return
			}
		}
	}
}

// Reset clears the tree and persists the empty state.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.root = make(map[string]any)
	s.mu.Unlock()
	return s.autosave(ctx)
}

// autosave writes the whole tree under the fixed key. On quota rejection
// it retries with a progress-only projection; if that also fails the
// write is dropped and SignalQuotaExceeded is raised in-tree.
func (s *Store) autosave(ctx context.Context) error {
	if s.adapter == nil {
		return nil
	}

	s.mu.RLock()
	full := s.root
	s.mu.RUnlock()

	err := s.adapter.Set(ctx, saveKey, full)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		s.logger.Warn("autosave failed", "error", err)
		return err
	}

	s.mu.RLock()
	minimal := map[string]any{progressRoot: s.root[progressRoot]}
	s.mu.RUnlock()

	if retryErr := s.adapter.Set(ctx, saveKey, minimal); retryErr == nil {
		s.logger.Warn("autosave degraded to progress-only projection")
		return nil
	}
	s.logger.Warn("autosave dropped, storage quota exceeded")
	s.raiseQuotaSignal(ctx)
	return err
}

// raiseQuotaSignal flips the signal leaf and notifies its listeners
// without triggering another autosave.
func (s *Store) raiseQuotaSignal(_ context.Context) {
	s.mu.Lock()
	segments := strings.Split(SignalQuotaExceeded, ".")
	node := s.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	leaf := segments[len(segments)-1]
	oldValue := node[leaf]
	node[leaf] = true
	exact := append([]*registration(nil), s.listeners[SignalQuotaExceeded]...)
	wildcard := append([]*registration(nil), s.listeners[Wildcard]...)
	s.mu.Unlock()

	for _, reg := range exact {
		s.invoke(SignalQuotaExceeded, reg.fn, true, oldValue)
	}
	for _, reg := range wildcard {
		s.invoke(SignalQuotaExceeded, reg.fn, true, oldValue)
	}
}
