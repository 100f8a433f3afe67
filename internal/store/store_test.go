package store_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userboard/internal/store"
	"userboard/internal/store/memory"
)

func TestGetJSON_DefaultOnMiss(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(zerolog.Nop())

	got := store.GetJSON(ctx, s, "absent", []string{"fallback"})
	assert.Equal(t, []string{"fallback"}, got)
}

func TestGetJSON_DefaultOnCorruptPayload(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(zerolog.Nop())
	require.NoError(t, s.Set(ctx, "broken", []byte("{not json")))

	got := store.GetJSON(ctx, s, "broken", map[string]int{"d": 1})
	assert.Equal(t, map[string]int{"d": 1}, got)
}

func TestSetJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(zerolog.Nop())

	type record struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	require.NoError(t, store.SetJSON(ctx, s, "r", record{Name: "x", N: 7}))

	got := store.GetJSON(ctx, s, "r", record{})
	assert.Equal(t, record{Name: "x", N: 7}, got)
}

func TestGetJSON_NilPointerDefault(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(zerolog.Nop())

	type record struct{ Name string }
	assert.Nil(t, store.GetJSON[*record](ctx, s, "absent", nil))

	require.NoError(t, store.SetJSON(ctx, s, "r", record{Name: "x"}))
	got := store.GetJSON[*record](ctx, s, "r", nil)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Name)
}
