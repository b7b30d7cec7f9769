package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock - управляемые часы для лимитера.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimiter(t *testing.T) (*Limiter, *MemoryStore, *fakeClock) {
	t.Helper()
	store := NewMemoryStore()
	clock := newFakeClock()
	return New(store, 5, time.Hour, WithClock(clock.Now)), store, clock
}

func TestAllow_FiveThenDenied(t *testing.T) {
	t.Parallel()

	l, store, _ := newLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, l.Allow(ctx, "1.2.3.4"), "attempt %d", i)
	}
	require.ErrorIs(t, l.Allow(ctx, "1.2.3.4"), ErrLimitExceeded)

	// отказ не меняет запись.
	rec, ok := store.Record("1.2.3.4")
	require.True(t, ok)
	require.Equal(t, 5, rec.Count)
}

func TestAllow_PerKeyIsolation(t *testing.T) {
	t.Parallel()

	l, _, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "1.1.1.1"))
	}
	require.ErrorIs(t, l.Allow(ctx, "1.1.1.1"), ErrLimitExceeded)
	require.NoError(t, l.Allow(ctx, "2.2.2.2"))
}

func TestAllow_WindowExpiryIsStrict(t *testing.T) {
	t.Parallel()

	l, store, clock := newLimiter(t)
	ctx := context.Background()

	start := clock.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "k"))
	}

	rec, _ := store.Record("k")
	require.Equal(t, start.Add(time.Hour), rec.ResetAt)

	// ровно в момент ResetAt окно ещё действует.
	clock.Advance(time.Hour)
	require.ErrorIs(t, l.Allow(ctx, "k"), ErrLimitExceeded)

	clock.Advance(time.Millisecond)
	require.NoError(t, l.Allow(ctx, "k"))

	rec, _ = store.Record("k")
	require.Equal(t, 1, rec.Count)
	require.Equal(t, clock.Now().Add(time.Hour), rec.ResetAt)
}

func TestAllow_TruncatesToMilliseconds(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 999_999, time.UTC)
	l := New(store, 1, time.Second, WithClock(func() time.Time { return now }))

	require.NoError(t, l.Allow(context.Background(), "k"))
	rec, _ := store.Record("k")
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC), rec.ResetAt)
}

func TestCheckAndConsume_ExplicitPolicy(t *testing.T) {
	t.Parallel()

	l, _, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.CheckAndConsume(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := l.CheckAndConsume(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReset_AllowsAgain(t *testing.T) {
	t.Parallel()

	l, store, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "k"))
	}
	require.ErrorIs(t, l.Allow(ctx, "k"), ErrLimitExceeded)

	require.NoError(t, l.Reset(ctx, "k"))
	require.Equal(t, 0, store.Len())
	require.NoError(t, l.Allow(ctx, "k"))
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	l := New(NewMemoryStore(), 0, 0)
	require.Equal(t, DefaultLimit, l.Limit())
	require.Equal(t, DefaultWindow, l.Window())
}

func TestAllow_Concurrent_ExactlyLimitAllowed(t *testing.T) {
	t.Parallel()

	const limit = 7
	l := New(NewMemoryStore(), limit, time.Hour)
	ctx := context.Background()

	var allowed, denied atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := l.Allow(ctx, "k"); {
			case err == nil:
				allowed.Add(1)
			case errors.Is(err, ErrLimitExceeded):
				denied.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, limit, allowed.Load())
	require.EqualValues(t, 100-limit, denied.Load())
}

type failingStore struct{ err error }

func (f failingStore) Consume(context.Context, string, int, time.Duration, time.Time) (bool, error) {
	return false, f.err
}

func (f failingStore) Reset(context.Context, string) error { return f.err }

func TestAllow_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l := New(failingStore{err: boom}, 5, time.Hour)

	err := l.Allow(context.Background(), "k")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrLimitExceeded)

	require.ErrorIs(t, l.Reset(context.Background(), "k"), boom)
}
