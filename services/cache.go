package services

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps the provider-response cache. Entries expire passively after the
// injected TTL; nothing sweeps them, an expired entry simply misses on lookup.
type Cache struct {
	ttl   time.Duration
	store *gocache.Cache
}

// NewCache builds a cache with the given time-to-live. The cleanup interval is
// zero on purpose: expiry is checked on read, never in the background.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		store: gocache.New(ttl, 0),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(key string, value interface{}) {
	c.store.Set(key, value, c.ttl)
}

// CacheKey builds the deterministic key for a provider call from the provider
// name, the operation, and every effective parameter.
func CacheKey(parts ...string) string {
	return strings.Join(parts, "_")
}
