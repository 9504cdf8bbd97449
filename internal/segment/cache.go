package segment

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct words memoized by default.
const DefaultCacheSize = 50000

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any lookup.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache memoizes segmentation results with least-recently-used eviction.
// It is safe for concurrent use. Eviction never changes results, only
// whether they are recomputed.
type Cache struct {
	lru       *lru.Cache[string, string]
	capacity  int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache returns a cache holding at most size words.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}

	c := &Cache{capacity: size}
	l, err := lru.NewWithEvict[string, string](size, func(string, string) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	c.lru = l

	return c, nil
}

// Get returns the memoized result for word.
func (c *Cache) Get(word string) (string, bool) {
	v, ok := c.lru.Get(word)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add memoizes result for word.
func (c *Cache) Add(word, result string) {
	c.lru.Add(word, result)
}

// Purge drops every entry. Dropped entries are counted as evictions.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.lru.Len(),
		Capacity:  c.capacity,
	}
}
