package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factlens/internal/model"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("openai", "gpt-4o-mini", "prompt")
	b := CacheKey("openai", "gpt-4o-mini", "prompt")
	c := CacheKey("openai", "gpt-4o-mini", "prompt ")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, CacheKey("ab", "c"), CacheKey("a", "bc"))
	assert.Contains(t, a, keyPrefix)
}

func TestNew(t *testing.T) {
	assert.Nil(t, New(model.CacheConfig{Enabled: false}))

	_, isMemory := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache)
	assert.True(t, isMemory)

	_, isLayered := New(model.CacheConfig{Enabled: true, DiskDir: t.TempDir()}).(*LayeredCache)
	assert.True(t, isLayered)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	require.NoError(t, c.Set("k", []byte(`{"label":"True"}`), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, `{"label":"True"}`, string(got))

	// Survives a new instance over the same directory
	got, ok = NewDiskCache(dir, time.Hour).Get("k")
	require.True(t, ok)
	assert.Equal(t, `{"label":"True"}`, string(got))

	require.NoError(t, c.Delete("k"))
	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	require.NoError(t, c.Set("old", []byte("v"), time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	_, ok := c.Get("old")
	assert.False(t, ok)
	_, err := os.Stat(c.path("old"))
	assert.True(t, os.IsNotExist(err))

	bad := c.path("bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(bad), 0o700))
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o600))
	_, ok = c.Get("bad")
	assert.False(t, ok)
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskCache_KeyMismatchIsMiss(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	require.NoError(t, c.Set("a", []byte("v"), 0))

	// Simulate a foreign entry at the path of another key
	data, err := os.ReadFile(c.path("a"))
	require.NoError(t, err)
	other := c.path("b")
	require.NoError(t, os.MkdirAll(filepath.Dir(other), 0o700))
	require.NoError(t, os.WriteFile(other, data, 0o600))

	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestDiskCache_ClearKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("b", []byte("2"), 0))
	keep := filepath.Join(dir, "README.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o600))

	require.NoError(t, c.Clear())

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, err := os.Stat(keep)
	assert.NoError(t, err)

	assert.NoError(t, NewDiskCache(filepath.Join(dir, "missing"), 0).Clear())
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewDiskCache(dir, time.Hour).Set("k", []byte("v"), 0))

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	got, ok = c.memory.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}
