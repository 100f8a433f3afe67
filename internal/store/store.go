// Package store defines the key/value containers the core keeps its state
// in. Two scopes exist: a durable store that outlives the process (the
// user collection) and a process-scoped store that is cleared when the
// session ends (the active session). Both speak the same contract, so
// consumers never care which scope they were handed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys. The stored payloads keep the shapes of the original
// system: a JSON array of user records and a single user record.
const (
	// UsersKey holds the JSON array of user records, insertion order
	// preserved. An absent key is an empty collection.
	UsersKey = "users"

	// SessionKey holds the JSON of the active user record, or is absent
	// when no session exists.
	SessionKey = "sessionUser"
)

// ErrKeyNotFound indicates the key has no value in the store.
var ErrKeyNotFound = errors.New("key not found")

// Store is a key/value container holding JSON-serialized records.
// Writes are synchronous: a Set is visible to the next Get within the
// process. Implementations are not required to coordinate across
// independent processes sharing the same backing storage.
type Store interface {
	// Get returns the raw value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the raw value under key, replacing any prior value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// Close releases the backing resources.
	Close() error
}

// GetJSON reads and decodes the value at key. A missing key or an
// unparsable payload yields the caller-supplied default rather than an
// error; dependent views treat corrupt state as absent state.
func GetJSON[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
