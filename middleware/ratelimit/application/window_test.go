package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"acrate-badge/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCounter imita a semântica do store: INCR e EXPIRE só no primeiro hit.
type memCounter struct {
	mu      sync.Mutex
	now     func() time.Time
	counts  map[string]int64
	expires map[string]time.Time
	ttls    map[string]time.Duration
	err     error
}

func newMemCounter(now func() time.Time) *memCounter {
	return &memCounter{
		now:     now,
		counts:  make(map[string]int64),
		expires: make(map[string]time.Time),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *memCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if exp, ok := c.expires[key]; ok && !c.now().Before(exp) {
		delete(c.counts, key)
		delete(c.expires, key)
	}
	c.counts[key]++
	if c.counts[key] == 1 {
		c.expires[key] = c.now().Add(ttl)
		c.ttls[key] = ttl
	}
	return c.counts[key], nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestNewWindowLimiter_RejectsInvalidConfig(t *testing.T) {
	_, err := NewWindowLimiter(newMemCounter(time.Now), 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	_, err = NewWindowLimiter(newMemCounter(time.Now), time.Minute, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestWindowLimiter_AdmitsUpToLimitThenRejects(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_040, 0)} // início de bucket de 60s
	counter := newMemCounter(clk.Now)
	lim, err := NewWindowLimiter(counter, 60*time.Second, 10, WithClock(clk.Now))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		ok, err := lim.CheckAndRecord(ctx, "atcoder")
		require.NoError(t, err)
		assert.True(t, ok, "call %d should be admitted", i+1)
		clk.Advance(time.Second)
	}

	ok, err := lim.CheckAndRecord(ctx, "atcoder")
	require.NoError(t, err)
	assert.False(t, ok, "11th call in the same bucket should be rejected")
}

func TestWindowLimiter_NextBucketAdmitsAgain(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_040, 0)}
	counter := newMemCounter(clk.Now)
	lim, err := NewWindowLimiter(counter, 60*time.Second, 10, WithClock(clk.Now))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 15; i++ {
		_, _ = lim.CheckAndRecord(ctx, "atcoder")
	}

	clk.Advance(61 * time.Second)
	ok, err := lim.CheckAndRecord(ctx, "atcoder")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindowLimiter_BoundaryBurstAdmitsTwiceTheLimit(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_099, 0)} // último segundo do bucket
	counter := newMemCounter(clk.Now)
	lim, err := NewWindowLimiter(counter, 60*time.Second, 3, WithClock(clk.Now))
	require.NoError(t, err)

	ctx := context.Background()
	admitted := 0
	for i := 0; i < 3; i++ {
		if ok, _ := lim.CheckAndRecord(ctx, "k"); ok {
			admitted++
		}
	}
	clk.Advance(time.Second)
	for i := 0; i < 3; i++ {
		if ok, _ := lim.CheckAndRecord(ctx, "k"); ok {
			admitted++
		}
	}
	assert.Equal(t, 6, admitted)
}

func TestWindowLimiter_RejectionStillConsumesSlot(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_040, 0)}
	counter := newMemCounter(clk.Now)
	lim, err := NewWindowLimiter(counter, 60*time.Second, 1, WithClock(clk.Now))
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = lim.CheckAndRecord(ctx, "k")
	_, _ = lim.CheckAndRecord(ctx, "k")
	_, _ = lim.CheckAndRecord(ctx, "k")

	assert.Equal(t, int64(3), counter.counts[lim.BucketKey("k", clk.Now())])
}

func TestWindowLimiter_SetsExpiryToWindowSeconds(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_040, 0)}
	counter := newMemCounter(clk.Now)
	lim, err := NewWindowLimiter(counter, 60*time.Second, 10, WithClock(clk.Now))
	require.NoError(t, err)

	_, err = lim.CheckAndRecord(context.Background(), "atcoder")
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, counter.ttls["atcoder:28333334"])
}

func TestWindowLimiter_BucketKey(t *testing.T) {
	lim, err := NewWindowLimiter(newMemCounter(time.Now), 60*time.Second, 10)
	require.NoError(t, err)

	assert.Equal(t, "atcoder:28333334", lim.BucketKey("atcoder", time.Unix(1_700_000_040, 0)))
	assert.Equal(t, "atcoder:28333334", lim.BucketKey("atcoder", time.Unix(1_700_000_099, 0)))
	assert.Equal(t, "atcoder:28333335", lim.BucketKey("atcoder", time.Unix(1_700_000_100, 0)))
}

func TestWindowLimiter_SubSecondWindowUsesOneSecondBuckets(t *testing.T) {
	lim, err := NewWindowLimiter(newMemCounter(time.Now), 500*time.Millisecond, 10)
	require.NoError(t, err)

	assert.Equal(t, "k:42", lim.BucketKey("k", time.Unix(42, 0)))
}

func TestWindowLimiter_CounterFailureIsLimiterError(t *testing.T) {
	counter := newMemCounter(time.Now)
	counter.err = errors.New("connection refused")
	lim, err := NewWindowLimiter(counter, time.Minute, 10)
	require.NoError(t, err)

	ok, err := lim.CheckAndRecord(context.Background(), "atcoder")
	assert.False(t, ok)
	var le *domain.LimiterError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Error(), "connection refused")
}

func TestWindowLimiter_ConcurrentCallsNeverOverAdmit(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_040, 0)}
	counter := newMemCounter(clk.Now)
	lim, err := NewWindowLimiter(counter, 60*time.Second, 10, WithClock(clk.Now))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := lim.CheckAndRecord(context.Background(), "atcoder"); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, admitted)
}
