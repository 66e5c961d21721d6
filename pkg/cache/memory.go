package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local cache backed by a map. It is the default
// for the embedded server, where artifacts are small and the process is the
// only consumer. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache() Cache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value from the cache. Expired entries are removed lazily.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	return e.data, true, nil
}

// Set stores a value in the cache. ttl <= 0 means no expiration.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Close does nothing for the memory cache.
func (c *MemoryCache) Close() error {
	return nil
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
