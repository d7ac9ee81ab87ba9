package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cached struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestRedisJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	require.NoError(t, PingRedis(ctx, rdb, time.Second))

	var got cached
	ok, err := RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", cached{ID: "1", Name: "ann"}, time.Minute))
	ok, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cached{ID: "1", Name: "ann"}, got)

	mr.FastForward(2 * time.Minute)
	ok, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", cached{ID: "2"}, 0))
	require.NoError(t, RedisDel(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestEscapeObjectPath(t *testing.T) {
	assert.Equal(t, "avatars/u1/a%20b.png", EscapeObjectPath("/avatars/u1/a b.png"))
	assert.Equal(t, "https://storage.googleapis.com/bkt/x/y.jpg", PublicURL("bkt", "x/y.jpg"))
}
