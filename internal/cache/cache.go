// Package cache provides a generic TTL cache
package cache

import (
	"sync"
	"time"
)

// item wraps a cached value with its expiration time
type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a generic thread-safe cache with per-entry TTL.
// There is no size bound and no background sweep: an expired entry stays in
// the map, reads as absent, and is replaced by the next successful fetch.
type Cache[K comparable, V any] struct {
	items map[K]item[V]
	mu    sync.RWMutex
	now   func() time.Time
}

// Option configures a Cache
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates an empty cache
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		items: make(map[K]item[V]),
		now:   o.now,
	}
}

// Get retrieves a value, returning (value, true) if found and not expired
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	if !exists || !c.now().Before(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores a value that expires ttl from now, replacing any previous entry
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// GetOrFetch returns the live value for key, or calls fetch and stores its
// result for ttl. A failed fetch stores nothing and leaves any previous entry
// in place. Concurrent misses on one key may each call fetch; the last
// successful write wins. No lock is held while fetch runs.
func (c *Cache[K, V]) GetOrFetch(key K, ttl time.Duration, fetch func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fetch()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v, ttl)
	return v, nil
}

// Size returns the number of items (including expired)
func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
