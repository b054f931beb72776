package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *PageCache {
	t.Helper()
	c, err := NewPageCache(filepath.Join(t.TempDir(), "pages.sqlite"), ttl)
	require.NoError(t, err)
	require.NoError(t, c.Migrate(context.Background()))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPageCache_PutGet(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "https://example.com/db/browse/ctid/19")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "https://example.com/db/browse/ctid/19", "<html>la</html>"))

	body, ok, err := c.Get(ctx, "https://example.com/db/browse/ctid/19")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<html>la</html>", body)
}

func TestPageCache_PutReplaces(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "https://example.com/a", "one"))
	require.NoError(t, c.Put(ctx, "https://example.com/a", "two"))

	body, ok, err := c.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", body)
}

func TestPageCache_ExpiredEntryMisses(t *testing.T) {
	c := newTestCache(t, -time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "https://example.com/old", "stale"))

	_, ok, err := c.Get(ctx, "https://example.com/old")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPageCache_Purge(t *testing.T) {
	c := newTestCache(t, -time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "https://example.com/one", "x"))
	require.NoError(t, c.Put(ctx, "https://example.com/two", "y"))

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	total, live, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.EqualValues(t, 0, live)
}
