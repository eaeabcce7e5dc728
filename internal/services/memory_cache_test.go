package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []int{1, 2}, time.Minute))

	var got []int
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, []int{1, 2}, got)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestGetOrSet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	calls := 0
	fetch := func() (string, error) {
		calls++
		return "tree", nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrSet(cache, ctx, "catalog", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, "tree", v)
	}
	assert.Equal(t, 1, calls)

	require.NoError(t, cache.Delete(ctx, "catalog"))
	_, err := GetOrSet(cache, ctx, "catalog", time.Minute, func() (string, error) {
		return "", errors.New("backend down")
	})
	assert.EqualError(t, err, "backend down")

	var v string
	assert.ErrorIs(t, cache.Get(ctx, "catalog", &v), ErrCacheMiss)
}

func TestMemoryCacheSetNX(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	ok, err := cache.SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Delete(ctx, "lock"))
	ok, err = cache.SetNX(ctx, "lock", "c", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
