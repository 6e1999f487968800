package models

import (
	"errors"
	"sync"
)

// ErrCacheEmpty is returned by Pop on an empty cache.
var ErrCacheEmpty = errors.New("models: cache is empty")

// Cache is an in-memory map that forgets its oldest entries once it holds
// more than its limit. A limit <= 0 means unbounded. Safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	max   int
	items map[K]V
	order []K
}

// NewCache returns an empty cache holding at most max items.
func NewCache[K comparable, V any](max int) *Cache[K, V] {
	return &Cache[K, V]{
		max:   max,
		items: make(map[K]V),
	}
}

// Max returns the item limit.
func (c *Cache[K, V]) Max() int { return c.max }

// Len returns the number of cached items.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Set stores value under key. Replacing a key keeps its insertion position.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	c.items[key] = value

	for c.max > 0 && len(c.items) > c.max {
		c.popOldest()
	}
}

// Get returns the value under key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Delete removes key and returns its value.
func (c *Cache[K, V]) Delete(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return v, false
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return v, true
}

// Pop removes and returns the oldest item.
func (c *Cache[K, V]) Pop() (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		var zero V
		return zero, ErrCacheEmpty
	}
	return c.popOldest(), nil
}

// Values returns the cached values, oldest first.
func (c *Cache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]V, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.items[k])
	}
	return out
}

func (c *Cache[K, V]) popOldest() V {
	key := c.order[0]
	c.order = c.order[1:]
	v := c.items[key]
	delete(c.items, key)
	return v
}
