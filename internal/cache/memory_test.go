package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	_, err := s.Get(ctx, "categories")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "categories", []byte(`[1,2]`), time.Minute))
	got, err := s.Get(ctx, "categories")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2]`), got)

	require.NoError(t, s.Delete(ctx, "categories", "unknown"))
	_, err = s.Get(ctx, "categories")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Expiration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(30 * time.Second)
	_, err := s.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(31 * time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 1, s.Len(), "expired entries stay until swept")

	s.sweep()
	assert.Equal(t, 0, s.Len())
}
