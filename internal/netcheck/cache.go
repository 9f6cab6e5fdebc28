package netcheck

import (
	"sync"
	"time"
)

type cacheEntry struct {
	accessible bool
	storedAt   time.Time
}

// resultCache remembers recent probe outcomes so repeated checks of the
// same URL inside the TTL window skip the network entirely. Failures are
// cached too. Stale reads under concurrency are acceptable.
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *resultCache) get(url string) (accessible, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[url]
	if !found || time.Since(e.storedAt) >= c.ttl {
		return false, false
	}
	return e.accessible, true
}

func (c *resultCache) put(url string, accessible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{accessible: accessible, storedAt: time.Now()}
}

// purgeExpired drops entries past the TTL and returns how many were removed.
func (c *resultCache) purgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for url, e := range c.entries {
		if time.Since(e.storedAt) >= c.ttl {
			delete(c.entries, url)
			n++
		}
	}
	return n
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
