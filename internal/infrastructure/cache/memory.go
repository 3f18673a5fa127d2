package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sucrecam/backend/internal/domain"
)

// cacheItem represents a single resolved product with its expiration
type cacheItem struct {
	value      domain.ResolvedProduct
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory resolution cache with a fixed TTL
type MemoryCache struct {
	data  map[string]cacheItem
	ttl   time.Duration
	mutex sync.Mutex
}

// NewMemoryCache creates a new in-memory cache. Entries older than ttl are
// evicted on read; a background sweep removes the rest.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
		ttl:  ttl,
	}

	// Remove expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Get retrieves a resolved product from the cache. Expired entries are
// evicted and reported as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.ResolvedProduct, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.expiration) {
		delete(c.data, key)
		return nil, domain.ErrCacheMiss
	}

	value := item.value
	return &value, nil
}

// Set stores a resolved product, unconditionally overwriting any existing
// entry with a fresh timestamp
func (c *MemoryCache) Set(ctx context.Context, key string, value *domain.ResolvedProduct) error {
	if value == nil {
		return domain.ErrInvalidRequest
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:      *value,
		expiration: time.Now().Add(c.ttl),
	}

	return nil
}

// Delete removes an entry from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
