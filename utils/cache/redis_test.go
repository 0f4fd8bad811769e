package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheCounters(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Expire(ctx, "k", time.Minute))
	ttl, err := c.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	mr.FastForward(2 * time.Minute)
	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCacheGetSetDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, c.Delete(ctx, "a"))
	exists, err := c.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache("redis://127.0.0.1:1")
	assert.Error(t, err)

	_, err = NewRedisCache("not a url")
	assert.Error(t, err)
}
