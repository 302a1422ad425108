// Package cache provides the small in-process caches used by the request
// pipeline, currently an LRU with per-entry TTL for geocode results.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a size-bounded key/value store with expiry.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Len() int
	Purge()
}

type lruEntry struct {
	key     string
	value   any
	expires time.Time
}

type lruCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

// NewLRU creates an LRU cache. A ttl of zero or less disables the default
// expiry; Set may still pass a per-entry TTL.
func NewLRU(capacity int, ttl time.Duration) Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &lruCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*lruEntry)
	if !ent.expires.IsZero() && !time.Now().Before(ent.expires) {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return ent.value, true
}

func (c *lruCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.ttl
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*lruEntry)
		ent.value = value
		ent.expires = expires
		c.order.MoveToFront(elem)
		return
	}
	if len(c.items) >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
	c.items[key] = c.order.PushFront(&lruEntry{key: key, value: value, expires: expires})
}

func (c *lruCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}
