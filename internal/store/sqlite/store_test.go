package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userboard/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "users")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "users", []byte(`[]`)))
	got, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, s.Set(ctx, "users", []byte(`[{"username":"admin"}]`)))
	got, err = s.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"username":"admin"}]`), got)

	require.NoError(t, s.Remove(ctx, "users"))
	_, err = s.Get(ctx, "users")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, s.Remove(ctx, "users"))
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "userboard.db")

	s, err := NewStore(ctx, DefaultConfig(path), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := NewStore(ctx, DefaultConfig(path), zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
