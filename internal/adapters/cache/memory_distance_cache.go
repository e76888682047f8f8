package cache

import (
	"container/list"
	"context"
	"sync"

	"trip-planner-service/internal/ports"
)

// DefaultLegCacheSize bounds the in-process cache. A bounded LRU keeps
// long-running sessions from growing the key space forever.
const DefaultLegCacheSize = 4096

type memoryEntry struct {
	key    string
	result ports.DistanceResult
}

// MemoryDistanceCache is a bounded in-process LRU for leg results.
// Safe for concurrent use.
type MemoryDistanceCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

func NewMemoryDistanceCache(capacity int) *MemoryDistanceCache {
	if capacity <= 0 {
		capacity = DefaultLegCacheSize
	}
	return &MemoryDistanceCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached result for key, or nil on miss. A hit renews
// the entry's recency.
func (c *MemoryDistanceCache) Get(_ context.Context, key string) (*ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	c.order.MoveToFront(el)
	r := el.Value.(*memoryEntry).result
	return &r, nil
}

// Put stores the result for key, evicting the least recently used entry
// beyond capacity.
func (c *MemoryDistanceCache) Put(_ context.Context, key string, result ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*memoryEntry).result = result
		c.order.MoveToFront(el)
		return nil
	}

	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, result: result})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}

// Len reports the current entry count.
func (c *MemoryDistanceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
