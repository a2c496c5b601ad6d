package infra

import (
	"context"
	"errors"
	"strings"
	"time"

	"acrate-badge/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// windowIncrScript incrementa e, só no primeiro hit, define a expiração.
// Rodar como script garante que INCR e EXPIRE são atômicos entre instâncias.
const windowIncrScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
end
return current
`

var redisWindowIncr = redis.NewScript(windowIncrScript)

// RedisCounter implementa domain.WindowCounter falando o protocolo Redis
// (Redis próprio ou Upstash via TLS).
type RedisCounter struct {
	rdb    redis.Scripter
	prefix string
}

type RedisCounterOption func(*RedisCounter)

func WithCounterPrefix(prefix string) RedisCounterOption {
	return func(c *RedisCounter) { c.prefix = strings.Trim(prefix, ":") }
}

func NewRedisCounter(rdb redis.Scripter, opts ...RedisCounterOption) *RedisCounter {
	c := &RedisCounter{rdb: rdb}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, &domain.LimiterError{Reason: "redis client not configured"}
	}
	if c.prefix != "" {
		key = c.prefix + ":" + key
	}

	res, err := redisWindowIncr.Run(ctx, c.rdb, []string{key}, ttlSeconds(ttl)).Result()
	if err != nil {
		return 0, &domain.LimiterError{Reason: "redis eval", Err: err}
	}
	count, ok := res.(int64)
	if !ok {
		return 0, &domain.LimiterError{Reason: "redis eval", Err: errors.New("unexpected response type")}
	}
	return count, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	secs := int64(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
