package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute, 10)

	c.Set("k1", "v1")
	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "v1", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(time.Minute, 10)
	current := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return current }

	c.Set("k1", "v1")

	current = current.Add(59 * time.Second)
	_, ok := c.Get("k1")
	assert.True(t, ok)

	current = current.Add(2 * time.Second)
	_, ok = c.Get("k1")
	assert.False(t, ok)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCachePurge(t *testing.T) {
	c := New(time.Minute, 10)
	c.Set("k1", "v1")
	c.Set("k2", "v2")

	c.Purge()

	_, ok := c.Get("k1")
	assert.False(t, ok)
	_, ok = c.Get("k2")
	assert.False(t, ok)

	c.Set("k3", "v3")
	_, ok = c.Get("k3")
	assert.True(t, ok)
}

func TestCacheSetRefreshesExisting(t *testing.T) {
	c := New(time.Minute, 10)
	c.Set("k1", "old")
	c.Set("k1", "new")

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestNilAndEmptyKeySafety(t *testing.T) {
	var c *Cache
	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.False(t, ok)
	c.Purge()

	real := New(time.Minute, 10)
	real.Set("", "v")
	_, ok = real.Get("")
	assert.False(t, ok)
}

func TestKeyStableAcrossArgumentOrder(t *testing.T) {
	a := Key("search_jobs", map[string]any{"keywords": "go", "location": "Remote", "limit": 5})
	b := Key("search_jobs", map[string]any{"limit": 5, "location": "Remote", "keywords": "go"})
	assert.Equal(t, a, b)

	c := Key("search_jobs", map[string]any{"keywords": "go", "location": "Berlin", "limit": 5})
	assert.NotEqual(t, a, c)

	d := Key("get_person_profile", map[string]any{"keywords": "go", "location": "Remote", "limit": 5})
	assert.NotEqual(t, a, d)
}

func TestKeyHandlesNestedValues(t *testing.T) {
	a := Key("tool", map[string]any{"filters": map[string]any{"x": 1, "y": []any{"a", "b"}}})
	b := Key("tool", map[string]any{"filters": map[string]any{"y": []any{"a", "b"}, "x": 1}})
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestKeyNilArguments(t *testing.T) {
	assert.NotEmpty(t, Key("close_session", nil))
	assert.Equal(t, Key("close_session", nil), Key("close_session", map[string]any{}))
}
