package infra

import (
	"context"
	"testing"
	"time"

	"acrate-badge/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlidingLog_RejectsInvalidConfig(t *testing.T) {
	_, err := NewSlidingLog(0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	_, err = NewSlidingLog(time.Minute, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestSlidingLog_AdmitsUpToLimitInTrailingWindow(t *testing.T) {
	now := time.Unix(1_000, 0)
	s, err := NewSlidingLog(60*time.Second, 10, WithSlidingLogClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := s.CheckAndRecord(ctx, "atcoder")
		require.NoError(t, err)
		assert.True(t, ok, "call %d should be admitted", i+1)
		now = now.Add(time.Second)
	}

	ok, err := s.CheckAndRecord(ctx, "atcoder")
	require.NoError(t, err)
	assert.False(t, ok)
	// rejeição não é registrada
	assert.Equal(t, 10, s.Len("atcoder"))
}

func TestSlidingLog_OldEntriesAreDiscarded(t *testing.T) {
	start := time.Unix(1_000, 0)
	now := start
	s, err := NewSlidingLog(60*time.Second, 2, WithSlidingLogClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = s.CheckAndRecord(ctx, "k")
	now = start.Add(30 * time.Second)
	_, _ = s.CheckAndRecord(ctx, "k")

	now = start.Add(59 * time.Second)
	ok, _ := s.CheckAndRecord(ctx, "k")
	assert.False(t, ok, "both calls are still inside the trailing window")

	// exatamente W depois: a primeira ainda conta (descarta só < now-W)
	now = start.Add(60 * time.Second)
	ok, _ = s.CheckAndRecord(ctx, "k")
	assert.False(t, ok)

	now = start.Add(61 * time.Second)
	ok, _ = s.CheckAndRecord(ctx, "k")
	assert.True(t, ok)
}

func TestSlidingLog_NoBoundaryBurst(t *testing.T) {
	now := time.Unix(1_059, 0)
	s, err := NewSlidingLog(60*time.Second, 3, WithSlidingLogClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	admitted := 0
	for i := 0; i < 3; i++ {
		if ok, _ := s.CheckAndRecord(ctx, "k"); ok {
			admitted++
		}
	}
	now = now.Add(time.Second)
	for i := 0; i < 3; i++ {
		if ok, _ := s.CheckAndRecord(ctx, "k"); ok {
			admitted++
		}
	}
	assert.Equal(t, 3, admitted)
}

func TestSlidingLog_KeysAreIndependent(t *testing.T) {
	s, err := NewSlidingLog(time.Minute, 1)
	require.NoError(t, err)
	ctx := context.Background()

	ok, _ := s.CheckAndRecord(ctx, "a")
	assert.True(t, ok)
	ok, _ = s.CheckAndRecord(ctx, "a")
	assert.False(t, ok)
	ok, _ = s.CheckAndRecord(ctx, "b")
	assert.True(t, ok)
}
