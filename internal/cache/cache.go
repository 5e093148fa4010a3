// Package cache provides a TTL + LRU bounded store for proxied tool results,
// so repeated reads of the same profile or posting do not cost a fresh scrape.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache stores decoded tool payloads for a limited time.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	key       string
	value     any
	expiresAt time.Time
}

// New creates a cache with the given ttl and max entries.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Cache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a cached payload if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores a payload under key.
func (c *Cache) Set(key string, value any) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	entry := &cacheEntry{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
	elem := c.order.PushFront(entry)
	c.items[key] = elem
	c.trim()
}

// Purge drops every entry. Used when the session cookie changes, since
// results scraped under the old session may differ from the new one.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *Cache) trim() {
	for len(c.items) > c.maxEntries {
		elem := c.order.Back()
		if elem == nil {
			return
		}
		entry := elem.Value.(*cacheEntry)
		delete(c.items, entry.key)
		c.order.Remove(elem)
	}
}
