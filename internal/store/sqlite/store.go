// Package sqlite provides the durable store implementation. It uses
// modernc.org/sqlite, a pure Go SQLite build that needs no CGO, so the
// whole system stays a single self-contained binary with one local file
// of state - the closest Go analogue to browser-local persistent storage.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"userboard/internal/store"
)

// Config holds SQLite connection settings.
type Config struct {
	// Path is the path to the database file. ":memory:" is accepted.
	Path string

	// JournalMode sets the SQLite journal mode (WAL recommended).
	JournalMode string

	// BusyTimeout sets the busy timeout in milliseconds.
	BusyTimeout int
}

// DefaultConfig returns a default SQLite configuration.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		JournalMode: "WAL",
		BusyTimeout: 5000,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Store implements store.Store over a single-file SQLite database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore opens (and if needed bootstraps) the durable store.
func NewStore(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	connStr := fmt.Sprintf(
		"%s?_pragma=journal_mode(%s)&_pragma=busy_timeout(%d)",
		cfg.Path, cfg.JournalMode, cfg.BusyTimeout,
	)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer: SQLite works best this way and the core is
	// single-threaded anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("store", "sqlite").Str("path", cfg.Path).Logger(),
	}
	s.logger.Debug().Msg("durable store opened")
	return s, nil
}

// Get returns the value for key, or store.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any prior value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
