// Package cache provides an in-memory key/value cache whose entries expire.
package cache

import (
	"sync"
	"time"
)

type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	// now is replaced in tests.
	now func() time.Time
}

type entry[V any] struct {
	value V
	exp   time.Time
}

func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Set stores value under key until ttl has elapsed.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value: value,
		exp:   c.now().Add(ttl),
	}
}

// Get returns the unexpired value stored under key. The second return value
// is false on a miss, in which case the zero value of V is returned.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.now().Before(e.exp) {
		return e.value, true
	}

	// Expired
	delete(c.entries, key)
	return zero, false
}

// Len returns the number of entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clean removes all expired entries and returns how many were removed.
func (c *Cache[V]) Clean() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.exp) {
			delete(c.entries, k)
			n++
		}
	}

	return n
}
