package verify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RoundTrip(t *testing.T) {
	cache, err := OpenCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()

	got, err := cache.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	entry := &CacheEntry{
		URL:       "https://example.com",
		Status:    200,
		OK:        true,
		CheckedAt: time.Now(),
	}
	require.NoError(t, cache.Put(ctx, entry))

	got, err = cache.Get(ctx, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.Status)
	assert.True(t, got.OK)
	assert.True(t, cache.Valid(got))
}

func TestCache_ReplaceEntry(t *testing.T) {
	cache, err := OpenCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, &CacheEntry{URL: "u", Status: 200, OK: true, CheckedAt: time.Now()}))
	require.NoError(t, cache.Put(ctx, &CacheEntry{URL: "u", Status: 404, OK: false, Error: "HTTP 404", CheckedAt: time.Now()}))

	got, err := cache.Get(ctx, "u")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 404, got.Status)
	assert.False(t, got.OK)
	assert.Equal(t, "HTTP 404", got.Error)
}

func TestCache_ExpiredEntryIsInvalid(t *testing.T) {
	cache, err := OpenCache(":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	stale := &CacheEntry{URL: "u", Status: 200, OK: true, CheckedAt: time.Now().Add(-2 * time.Minute)}
	assert.False(t, cache.Valid(stale))
	assert.False(t, cache.Valid(nil))
}
