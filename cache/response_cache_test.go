package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryResponseCache_SetGet(t *testing.T) {
	c := NewMemoryResponseCache(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "https://musicbrainz.org/ws/2/release-group/x")
	assert.False(t, ok)

	c.Set(ctx, "https://musicbrainz.org/ws/2/release-group/x", []byte(`{"id":"x"}`), time.Hour)
	body, ok := c.Get(ctx, "https://musicbrainz.org/ws/2/release-group/x")
	require.True(t, ok)
	assert.Equal(t, `{"id":"x"}`, string(body))
	assert.Equal(t, 1, c.ItemCount())
}

func TestMemoryResponseCache_Expiry(t *testing.T) {
	c := NewMemoryResponseCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryResponseCache_ZeroTTLNotStored(t *testing.T) {
	c := NewMemoryResponseCache(time.Minute)
	c.Set(context.Background(), "k", []byte("v"), 0)

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.ItemCount())
}

func TestRedisKey(t *testing.T) {
	k1 := redisKey("https://example.com/a?b=c")
	k2 := redisKey("https://example.com/a?b=d")

	assert.True(t, strings.HasPrefix(k1, responseKeyPrefix))
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, redisKey("https://example.com/a?b=c"))
}

func TestCheck_NotConnected(t *testing.T) {
	RedisClient = nil
	assert.Error(t, Check(context.Background()))
}
