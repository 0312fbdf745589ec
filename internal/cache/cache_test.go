package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	err := s.Set(ctx, "mandi:wheat::", payload{Name: "Vashi", Price: 2150}, time.Minute)
	require.NoError(t, err)

	var got payload
	found, err := s.Get(ctx, "mandi:wheat::", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Vashi", got.Name)
	assert.Equal(t, 2150.0, got.Price)
}

func TestMemoryStore_MissOnUnknownKey(t *testing.T) {
	s := NewMemoryStore()

	var got string
	found, err := s.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_ExpiryOnRead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Set(ctx, "weather:Nagpur", 42, 10*time.Minute))

	var got int
	found, err := s.Get(ctx, "weather:Nagpur", &got)
	require.NoError(t, err)
	assert.True(t, found, "entry should be live inside the TTL")

	// Advance past the TTL: the stale entry must read as absent.
	current = current.Add(11 * time.Minute)
	found, err = s.Get(ctx, "weather:Nagpur", &got)
	require.NoError(t, err)
	assert.False(t, found, "stale entry must be treated as a miss")

	// The expired entry was dropped, so a later Get stays a miss even if the
	// clock moves back.
	current = current.Add(-11 * time.Minute)
	found, _ = s.Get(ctx, "weather:Nagpur", &got)
	assert.False(t, found)
}

func TestMemoryStore_OverwriteRefreshesTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Set(ctx, "k", "old", time.Minute))
	current = current.Add(50 * time.Second)
	require.NoError(t, s.Set(ctx, "k", "new", time.Minute))
	current = current.Add(30 * time.Second)

	var got string
	found, err := s.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", got)
}
