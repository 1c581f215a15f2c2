package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recent
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Stats().Len)
}

func TestTTLExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New[Blob](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("img", Blob{ContentType: "image/jpeg", Data: []byte{1}})
	got, ok := c.Get("img")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", got.ContentType)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("img")
	assert.False(t, ok)
}

func TestCleanExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New[string](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old", "x")
	now = now.Add(30 * time.Second)
	c.Set("new", "y")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Stats().Len)
}

func TestStatsAndClear(t *testing.T) {
	c := New[string](4, time.Hour)
	c.Set("a", "1")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)

	c.Delete("a")
	c.Set("b", "2")
	c.Clear()
	assert.Equal(t, 0, c.Stats().Len)
}
