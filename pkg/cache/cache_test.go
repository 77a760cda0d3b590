package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := LayoutKey([]byte(`{"nodes":[]}`), map[string]float64{"node_gap": 3})

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	require.NoError(t, c.Set(ctx, key, []byte("payload"), 0))

	data, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, Hash([]byte("k")), []byte("v"), time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	_, ok, err := c.Get(ctx, Hash([]byte("k")))
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should miss")
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := Hash([]byte("gone"))
	require.NoError(t, c.Set(ctx, key, []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, key))

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestLayoutKeyDistinguishesInputs(t *testing.T) {
	diagram := []byte(`{"nodes":[{"id":"a"}]}`)
	cfgA := map[string]float64{"node_gap": 3}
	cfgB := map[string]float64{"node_gap": 4}

	assert.Equal(t, LayoutKey(diagram, cfgA), LayoutKey(diagram, cfgA))
	assert.NotEqual(t, LayoutKey(diagram, cfgA), LayoutKey(diagram, cfgB),
		"config changes must change the key")
	assert.NotEqual(t, LayoutKey(diagram, cfgA), LayoutKey([]byte(`{}`), cfgA),
		"diagram changes must change the key")
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
