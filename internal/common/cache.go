package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache wraps go-cache, which is safe for concurrent get/set from multiple
// request goroutines. Entries expire purely by TTL; nothing invalidates them.
type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

// CacheKeyTrending scopes a cached trending page to its pagination parameters.
func CacheKeyTrending(page, pageSize int) string {
	return "trending:" + strconv.Itoa(page) + ":" + strconv.Itoa(pageSize)
}
