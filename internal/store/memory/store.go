// Package memory provides an in-memory store implementation. It backs the
// session scope: contents live exactly as long as the process, mirroring
// tab-scoped storage. It also serves as a durable-scope double in tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"userboard/internal/store"
)

// Store implements store.Store over a mutex-guarded map.
// NOT shared across processes; that is the point.
type Store struct {
	mu     sync.RWMutex
	items  map[string][]byte
	logger zerolog.Logger
}

// NewStore creates a new in-memory store. Each instance gets a scope ID so
// log lines from different scopes stay distinguishable.
func NewStore(logger zerolog.Logger) *Store {
	scopeID := uuid.NewString()
	return &Store{
		items:  make(map[string][]byte),
		logger: logger.With().Str("store", "memory").Str("scope_id", scopeID).Logger(),
	}
}

// Get returns the value for key, or store.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}

	// Copy so callers cannot mutate stored state.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.items[key] = stored

	s.logger.Trace().Str("key", key).Int("bytes", len(value)).Msg("value set")
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Close clears the scope.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string][]byte)
	return nil
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
