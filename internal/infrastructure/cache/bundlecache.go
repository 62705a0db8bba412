package cache

import (
	"sync"
	"time"
)

// BundleCache is the TTL-bounded in-process store for generated bundles.
// There is no cross-process coherence: each process owns its own map, and
// the store stays the durable authority.
type BundleCache struct {
	mu      sync.RWMutex
	entries map[string]bundleEntry
	stop    chan struct{}
	once    sync.Once
}

type bundleEntry struct {
	value     string
	expiresAt time.Time
}

// KeyForToken builds the cache key for a subscription token.
func KeyForToken(token string) string {
	return "subscription:" + token
}

func NewBundleCache() *BundleCache {
	c := &BundleCache{
		entries: make(map[string]bundleEntry),
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the cached value and whether it is present and unexpired.
func (c *BundleCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Set stores a value with the given TTL.
func (c *BundleCache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = bundleEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Delete removes an entry; deleting a missing key is a no-op.
func (c *BundleCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *BundleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background cleanup.
func (c *BundleCache) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}

func (c *BundleCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
