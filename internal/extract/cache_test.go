package extract

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCache_GetMissThenHit(t *testing.T) {
	c := NewContentCache(4)

	_, ok := c.Get("fp-1")
	assert.False(t, ok)

	txt := &ExtractedText{Pages: []string{"page one"}, Text: "page one\n"}
	c.Put("fp-1", txt)

	got, ok := c.Get("fp-1")
	require.True(t, ok)
	assert.Same(t, txt, got)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestContentCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewContentCache(2)

	c.Put("a", &ExtractedText{Text: "a"})
	c.Put("b", &ExtractedText{Text: "b"})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", &ExtractedText{Text: "c"})

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok = c.Get("c")
	assert.True(t, ok)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Entries)
}

func TestContentCache_PutExistingUpdatesInPlace(t *testing.T) {
	c := NewContentCache(2)

	c.Put("a", &ExtractedText{Text: "old"})
	c.Put("a", &ExtractedText{Text: "new"})

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.Text)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Zero(t, stats.Evictions)
}

func TestContentCache_ZeroCapacityUsesDefault(t *testing.T) {
	c := NewContentCache(0)
	for i := 0; i < DefaultCacheCapacity; i++ {
		c.Put(fmt.Sprintf("fp-%d", i), &ExtractedText{})
	}
	stats := c.Stats()
	assert.Equal(t, DefaultCacheCapacity, stats.Entries)
	assert.Zero(t, stats.Evictions)
}

func TestContentCache_ConcurrentAccess(t *testing.T) {
	c := NewContentCache(16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("fp-%d", j%32)
				if _, ok := c.Get(key); !ok {
					c.Put(key, &ExtractedText{Text: key})
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.Entries, 16)
	assert.NotZero(t, stats.Hits+stats.Misses)
}
