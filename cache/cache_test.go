package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemtools/diffvec/resource"
)

func TestLRUBlockCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(50, nil)

	k1 := BlockKey{Blob: "a.snap", Block: 0}
	k2 := BlockKey{Blob: "a.snap", Block: 1}
	k3 := BlockKey{Blob: "a.snap", Block: 2}

	c.Set(ctx, k1, make([]byte, 20))
	c.Set(ctx, k2, make([]byte, 20))
	assert.EqualValues(t, 40, c.Size())

	// Third block exceeds the budget; k1 is least recently used.
	c.Set(ctx, k3, make([]byte, 20))
	assert.EqualValues(t, 40, c.Size())

	_, ok := c.Get(ctx, k1)
	assert.False(t, ok)
	_, ok = c.Get(ctx, k2)
	assert.True(t, ok)
	_, ok = c.Get(ctx, k3)
	assert.True(t, ok)
}

func TestLRUBlockCacheGetRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(40, nil)

	k1 := BlockKey{Blob: "a", Block: 0}
	k2 := BlockKey{Blob: "a", Block: 1}
	c.Set(ctx, k1, make([]byte, 20))
	c.Set(ctx, k2, make([]byte, 20))

	// Touch k1 so k2 becomes the eviction victim.
	_, ok := c.Get(ctx, k1)
	assert.True(t, ok)

	c.Set(ctx, BlockKey{Blob: "a", Block: 2}, make([]byte, 20))

	_, ok = c.Get(ctx, k1)
	assert.True(t, ok)
	_, ok = c.Get(ctx, k2)
	assert.False(t, ok)
}

func TestLRUBlockCacheMemoryBudget(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 30})
	c := NewLRUBlockCache(100, rc)

	c.Set(ctx, BlockKey{Blob: "a", Block: 0}, make([]byte, 20))
	assert.EqualValues(t, 20, c.Size())
	assert.EqualValues(t, 20, rc.MemoryUsage())

	// The controller refuses the reservation; the block is not cached.
	c.Set(ctx, BlockKey{Blob: "a", Block: 1}, make([]byte, 20))
	assert.EqualValues(t, 20, c.Size())

	_, ok := c.Get(ctx, BlockKey{Blob: "a", Block: 1})
	assert.False(t, ok)
}

func TestLRUBlockCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(100, nil)

	c.Set(ctx, BlockKey{Blob: "a", Block: 0}, make([]byte, 10))
	c.Set(ctx, BlockKey{Blob: "b", Block: 0}, make([]byte, 10))

	c.Invalidate(func(k BlockKey) bool { return k.Blob == "a" })

	_, ok := c.Get(ctx, BlockKey{Blob: "a", Block: 0})
	assert.False(t, ok)
	_, ok = c.Get(ctx, BlockKey{Blob: "b", Block: 0})
	assert.True(t, ok)
	assert.EqualValues(t, 10, c.Size())
}

func TestLRUBlockCacheRejectsOversized(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(10, nil)

	c.Set(ctx, BlockKey{Blob: "a", Block: 0}, make([]byte, 11))
	assert.EqualValues(t, 0, c.Size())
}
