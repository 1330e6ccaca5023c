// Package cache implements the bounded Content Cache (C4): an in-memory LRU
// keyed by content hash, capped both by item count and by total byte size,
// shared by the Differ (C3) and Lazy Loader (C5) to avoid recomputing or
// re-reading identical content.
package cache

import (
	"container/list"
	"sync"
)

// Cache is a dual-capped LRU: evicts the least-recently-used entry whenever
// either cap would be exceeded by an insert.
type Cache struct {
	mu       sync.Mutex
	maxItems int
	maxBytes int64

	curBytes   int64
	ll         *list.List
	items      map[string]*list.Element
	hits       int64
	misses     int64
	evictions  int64
	missWrites int64 // Put calls declined because the entry alone exceeds maxBytes
}

// Stats is a snapshot of the cache's running counters, per §4.4's
// stats() → {items, size_mb, hits, misses, evictions, hit_rate}.
type Stats struct {
	Items      int
	SizeMB     float64
	Hits       int64
	Misses     int64
	Evictions  int64
	MissWrites int64
	HitRate    float64
}

type entry struct {
	key   string
	value string
	size  int64
}

// New builds a Content Cache with the given item-count and byte-size caps.
func New(maxItems int, maxBytes int64) *Cache {
	return &Cache{
		maxItems: maxItems,
		maxBytes: maxBytes,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached value for key, promoting it to most-recently-used.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Put inserts or replaces key, evicting LRU entries as needed to respect
// both the item-count and byte-size caps. An entry larger than maxBytes by
// itself is not cached.
func (c *Cache) Put(key string, value string) {
	size := int64(len(value))
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxBytes > 0 && size > c.maxBytes {
		c.missWrites++
		return
	}

	if el, ok := c.items[key]; ok {
		old := el.Value.(*entry)
		c.curBytes -= old.size
		old.value = value
		old.size = size
		c.curBytes += size
		c.ll.MoveToFront(el)
		c.evict()
		return
	}

	el := c.ll.PushFront(&entry{key: key, value: value, size: size})
	c.items[key] = el
	c.curBytes += size
	c.evict()
}

func (c *Cache) evict() {
	for (c.maxItems > 0 && c.ll.Len() > c.maxItems) ||
		(c.maxBytes > 0 && c.curBytes > c.maxBytes) {
		back := c.ll.Back()
		if back == nil {
			return
		}
		c.removeElement(back)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.curBytes -= e.size
	c.evictions++
}

// Len returns the current item count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Bytes returns the current total byte size of cached values.
func (c *Cache) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curBytes
}

// Clear discards all entries. Running counters (hits, misses, evictions,
// miss-writes) are cumulative and survive a Clear.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll = list.New()
	c.items = make(map[string]*list.Element)
	c.curBytes = 0
}

// Stats returns a snapshot of the cache's size and running counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Items:      c.ll.Len(),
		SizeMB:     float64(c.curBytes) / (1 << 20),
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
		MissWrites: c.missWrites,
		HitRate:    hitRate,
	}
}
