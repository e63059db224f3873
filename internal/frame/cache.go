package frame

import (
	"sync"

	"orion/domain/core"
)

// Cache is a small LRU keyed by dataset ID. Loading a frame from disk
// dominates request latency, so the handful of recently used datasets
// stay resident.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	frames  map[core.DatasetID]*Frame
	order   []core.DatasetID
}

// NewCache creates a cache holding up to maxSize frames
func NewCache(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		maxSize: maxSize,
		frames:  make(map[core.DatasetID]*Frame),
	}
}

// Get returns the cached frame for a dataset, marking it most recently used
func (c *Cache) Get(id core.DatasetID) (*Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.frames[id]
	if !ok {
		return nil, false
	}
	c.touch(id)
	return f, true
}

// Put stores a frame, evicting the least recently used entry when full
func (c *Cache) Put(id core.DatasetID, f *Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.frames[id]; ok {
		c.frames[id] = f
		c.touch(id)
		return
	}

	c.frames[id] = f
	c.order = append(c.order, id)

	for len(c.order) > c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.frames, oldest)
	}
}

// Invalidate drops a single dataset from the cache
func (c *Cache) Invalidate(id core.DatasetID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.frames[id]; !ok {
		return
	}
	delete(c.frames, id)
	c.remove(id)
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = make(map[core.DatasetID]*Frame)
	c.order = nil
}

// Len returns the number of resident frames
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *Cache) touch(id core.DatasetID) {
	c.remove(id)
	c.order = append(c.order, id)
}

func (c *Cache) remove(id core.DatasetID) {
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
