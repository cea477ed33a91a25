package transport

import (
	"sync"
	"time"
)

// bodyCache is an in-memory TTL cache of response bodies keyed by full URL.
// Only requests marked cacheable go through it; randomized discovery must
// bypass caching or every round would replay the same batch.
type bodyCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newBodyCache(ttl time.Duration) *bodyCache {
	return &bodyCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// get returns the cached body for a URL if present and not expired.
func (c *bodyCache) get(url string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

// put stores a body. Expired entries are swept opportunistically so the map
// does not grow without bound between rounds.
func (c *bodyCache) put(url string, body []byte) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[url] = cacheEntry{body: body, expires: now.Add(c.ttl)}
}
