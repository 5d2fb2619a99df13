package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"irmend/internal/ir"
)

// Entry is a terminal repair outcome for one block content.
type Entry struct {
	Block   ir.Block
	Backend int
	OK      bool
}

// Cache memoizes backend repair results by content key. The zero value is
// not usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	enabled bool
	group   singleflight.Group
}

// New creates a Cache. A disabled cache misses on every Get and drops every
// Put, which forces each Do call through its repair function.
func New(enabled bool) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		enabled: enabled,
	}
}

// Get retrieves a cached entry by key. The returned block is a deep copy.
func (c *Cache) Get(key string) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	entry.Block = entry.Block.Clone()
	return entry, true
}

// Put stores a terminal repair outcome.
func (c *Cache) Put(key string, entry Entry) {
	if !c.enabled {
		return
	}
	entry.Block = entry.Block.Clone()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// Do returns the cached entry for key, or runs fn once to produce it.
// Concurrent callers with the same key share a single fn invocation.
func (c *Cache) Do(key string, fn func() Entry) Entry {
	if !c.enabled {
		return fn()
	}
	if entry, ok := c.Get(key); ok {
		return entry
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		if entry, ok := c.Get(key); ok {
			return entry, nil
		}
		entry := fn()
		c.Put(key, entry)
		return entry, nil
	})
	entry := v.(Entry)
	entry.Block = entry.Block.Clone()
	return entry
}

// Len reports the number of cached outcomes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// HashKey produces a hex-encoded SHA-256 hash of the given string.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)
}

// BuildKey derives the cache key for a block. json.Marshal sorts object keys,
// so two maps with identical content always hash identically.
func BuildKey(widgetID string, block ir.Block) string {
	data, err := json.Marshal(block)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", map[string]any(block)))
	}
	return HashKey(widgetID + ":" + string(data))
}
