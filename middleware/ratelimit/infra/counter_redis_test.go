package infra

import (
	"context"
	"testing"
	"time"

	"acrate-badge/middleware/ratelimit/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisCounter_IncrementsAndSetsExpiryOnFirstHit(t *testing.T) {
	mr, rdb := newTestRedis(t)
	c := NewRedisCounter(rdb)
	ctx := context.Background()

	n, err := c.Incr(ctx, "atcoder:1", 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 60*time.Second, mr.TTL("atcoder:1"))

	mr.FastForward(30 * time.Second)
	n, err = c.Incr(ctx, "atcoder:1", 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	// o segundo incremento não renova a expiração
	assert.Equal(t, 30*time.Second, mr.TTL("atcoder:1"))
}

func TestRedisCounter_KeyExpiresAfterWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	c := NewRedisCounter(rdb)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.Incr(ctx, "k", 10*time.Second)
		require.NoError(t, err)
	}
	mr.FastForward(11 * time.Second)
	assert.False(t, mr.Exists("k"))

	n, err := c.Incr(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisCounter_UsesPrefix(t *testing.T) {
	mr, rdb := newTestRedis(t)
	c := NewRedisCounter(rdb, WithCounterPrefix("acrate:"))

	_, err := c.Incr(context.Background(), "atcoder:7", time.Minute)
	require.NoError(t, err)

	v, err := mr.Get("acrate:atcoder:7")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestRedisCounter_UnreachableIsLimiterError(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()
	c := NewRedisCounter(rdb)

	_, err := c.Incr(context.Background(), "k", time.Minute)
	var le *domain.LimiterError
	require.ErrorAs(t, err, &le)
}

func TestRedisCounter_NilClientIsLimiterError(t *testing.T) {
	c := NewRedisCounter(nil)

	_, err := c.Incr(context.Background(), "k", time.Minute)
	var le *domain.LimiterError
	require.ErrorAs(t, err, &le)
}
