// Package cache provides a block cache for remote snapshot reads. Object
// store backends pay a round trip per read; caching fixed-size blocks
// keeps repeated header and payload reads local.
package cache

import (
	"context"
	"sync"

	"github.com/stemtools/diffvec/resource"
)

// BlockKey identifies one cached block of a blob.
type BlockKey struct {
	// Blob is the blob name within its store.
	Blob string
	// Block is the block index (byte offset / block size).
	Block int64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block; ok is false on a miss.
	Get(ctx context.Context, key BlockKey) (b []byte, ok bool)
	// Set caches a block. The caller must not mutate b afterwards.
	Set(ctx context.Context, key BlockKey, b []byte)
	// Invalidate drops all blocks whose key matches the predicate.
	Invalidate(match func(BlockKey) bool)
}

// LRUBlockCache is a size-bounded in-memory BlockCache with LRU
// eviction. Cached bytes are also reserved against an optional
// resource.Controller, so the cache competes with pattern stacks for the
// same memory budget.
type LRUBlockCache struct {
	mu      sync.Mutex
	maxSize int64
	size    int64
	rc      *resource.Controller

	items map[BlockKey]*entry
	head  *entry // most recently used
	tail  *entry // least recently used
}

type entry struct {
	key        BlockKey
	data       []byte
	prev, next *entry
}

// NewLRUBlockCache creates a cache holding at most maxSize bytes. rc may
// be nil.
func NewLRUBlockCache(maxSize int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		maxSize: maxSize,
		rc:      rc,
		items:   make(map[BlockKey]*entry),
	}
}

// Get returns a cached block and marks it recently used.
func (c *LRUBlockCache) Get(_ context.Context, key BlockKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.data, true
}

// Set caches a block, evicting least recently used blocks to make room.
// Blocks that do not fit the memory budget are silently not cached.
func (c *LRUBlockCache) Set(_ context.Context, key BlockKey, b []byte) {
	size := int64(len(b))
	if size == 0 || size > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.items[key]; ok {
		c.remove(old)
	}
	for c.size+size > c.maxSize && c.tail != nil {
		c.remove(c.tail)
	}
	if !c.rc.TryAcquireMemory(size) {
		return
	}

	e := &entry{key: key, data: b}
	c.items[key] = e
	c.pushFront(e)
	c.size += size
}

// Invalidate drops all blocks whose key matches the predicate.
func (c *LRUBlockCache) Invalidate(match func(BlockKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.items {
		if match(key) {
			c.remove(e)
		}
	}
}

// Size returns the cached bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRUBlockCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil

	delete(c.items, e.key)
	c.size -= int64(len(e.data))
	c.rc.ReleaseMemory(int64(len(e.data)))
}

func (c *LRUBlockCache) pushFront(e *entry) {
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRUBlockCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	// unlink
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
	c.pushFront(e)
}
