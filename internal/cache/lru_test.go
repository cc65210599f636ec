package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[[]string](2, time.Minute)

	_, ok := c.Get("global")
	assert.False(t, ok)

	c.Set("global", []string{"Food", "Travel"})
	got, ok := c.Get("global")
	assert.True(t, ok)
	assert.Equal(t, []string{"Food", "Travel"}, got)

	c.Delete("global")
	_, ok = c.Get("global")
	assert.False(t, ok)
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(30 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}
