package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(time.Hour)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCachePassiveExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "tmdb_search_dune_1", CacheKey("tmdb", "search", "dune", "1"))
}
