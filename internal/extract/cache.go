package extract

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCacheCapacity bounds the cache when no capacity is configured.
const DefaultCacheCapacity = 128

// CacheStats reports counters for a ContentCache.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// ContentCache memoizes ExtractedText by content fingerprint, bounded by
// an LRU entry count. Safe for concurrent use by batch workers.
type ContentCache struct {
	mu        sync.Mutex
	capacity  int
	entries   map[string]*list.Element
	order     *list.List // front = most recently used
	hits      uint64
	misses    uint64
	evictions uint64
}

type cacheEntry struct {
	fingerprint string
	text        *ExtractedText
	lastUsed    time.Time
}

func NewContentCache(capacity int) *ContentCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ContentCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached text for a fingerprint, refreshing its recency.
func (c *ContentCache) Get(fingerprint string) (*ExtractedText, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[fingerprint]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	entry := el.Value.(*cacheEntry)
	entry.lastUsed = time.Now()
	c.hits++
	return entry.text, true
}

// Put stores text under a fingerprint, evicting the least recently used
// entry once the capacity is exceeded.
func (c *ContentCache) Put(fingerprint string, text *ExtractedText) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[fingerprint]; ok {
		c.order.MoveToFront(el)
		entry := el.Value.(*cacheEntry)
		entry.text = text
		entry.lastUsed = time.Now()
		return
	}

	el := c.order.PushFront(&cacheEntry{
		fingerprint: fingerprint,
		text:        text,
		lastUsed:    time.Now(),
	})
	c.entries[fingerprint] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).fingerprint)
			c.evictions++
		}
	}
}

// Stats returns a snapshot of the cache counters.
func (c *ContentCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   c.order.Len(),
	}
}
