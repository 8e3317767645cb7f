package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(0, 0)
	defer c.Flush()

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10*time.Millisecond, time.Minute)
	defer c.Flush()

	c.Set("key", "value")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCacheExplicitExpiration(t *testing.T) {
	c := NewCache(10*time.Millisecond, time.Minute)
	defer c.Flush()

	c.Set("key", "value", time.Minute)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.True(t, ok)
}

func TestCacheKeyTrending(t *testing.T) {
	assert.Equal(t, "trending:1:20", CacheKeyTrending(1, 20))
	assert.NotEqual(t, CacheKeyTrending(1, 20), CacheKeyTrending(2, 20))
}
