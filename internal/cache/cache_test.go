package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Bins  []string `json:"bins"`
	Level int      `json:"level"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)
	defer c.Close()
	ctx := context.Background()

	var out snapshot
	found, err := c.Get(ctx, KeyActiveBins, &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, KeyActiveBins, snapshot{Bins: []string{"DHW001"}, Level: 85}))

	found, err = c.Get(ctx, KeyActiveBins, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, snapshot{Bins: []string{"DHW001"}, Level: 85}, out)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10, 20*time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1))
	time.Sleep(40 * time.Millisecond)

	var v int
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", 2))
	time.Sleep(2 * time.Millisecond)

	var v int
	found, _ := c.Get(ctx, "a", &v)
	require.True(t, found)

	require.NoError(t, c.Set(ctx, "c", 3))

	found, _ = c.Get(ctx, "b", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "a", &v)
	assert.True(t, found)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v"))
	require.NoError(t, c.Delete(ctx, "k"))

	var v string
	found, _ := c.Get(ctx, "k", &v)
	assert.False(t, found)
}

func TestNewFallsBackToMemory(t *testing.T) {
	c := New("redis://127.0.0.1:1/0", time.Minute)
	defer c.Close()
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}

func TestRedisCache(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	c, err := NewRedisCache(redisURL, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "test:snapshot", snapshot{Level: 42}))
	var out snapshot
	found, err := c.Get(ctx, "test:snapshot", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, out.Level)
	require.NoError(t, c.Delete(ctx, "test:snapshot"))
}
