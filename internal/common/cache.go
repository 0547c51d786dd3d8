package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// NoExpiration keeps an entry until it is overwritten or flushed.
const NoExpiration = cache.NoExpiration

// Cache is a keyed TTL cache. It runs no janitor: expired entries are
// invisible to Get and are only removed by DeleteExpired or Flush.
type Cache struct {
	*cache.Cache
	ttl time.Duration
}

// NewCache creates a cache whose entries expire after ttl. A ttl of
// NoExpiration keeps entries forever.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{Cache: cache.New(ttl, 0), ttl: ttl}
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

// TTL returns the default lifetime of an entry.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyCursor(filterKey string, page int) string {
	return "cursor:" + filterKey + "_" + strconv.Itoa(page)
}

func CacheKeySearch(normalizedQuery string) string {
	return "search_" + normalizedQuery
}

const CacheKeyAllTags = "all_tags"
