package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"driverdesk/internal/adapters/out/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingObserver struct {
	hits, misses atomic.Int32
}

func (o *countingObserver) CacheHit()  { o.hits.Add(1) }
func (o *countingObserver) CacheMiss() { o.misses.Add(1) }

func loader(calls *atomic.Int32, value any) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestViewCache_HitUntilExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	obs := &countingObserver{}
	c := cache.New(time.Minute, cache.WithClock(clock.Now), cache.WithObserver(obs))
	var calls atomic.Int32

	for range 3 {
		v, err := c.GetOrLoad(t.Context(), "d1", "active", loader(&calls, "first"))
		require.NoError(t, err)
		assert.Equal(t, "first", v)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 2, obs.hits.Load())
	assert.EqualValues(t, 1, obs.misses.Load())

	clock.Advance(time.Minute)
	v, err := c.GetOrLoad(t.Context(), "d1", "active", loader(&calls, "second"))
	require.NoError(t, err)
	assert.Equal(t, "second", v)
	assert.EqualValues(t, 2, calls.Load())
}

func TestViewCache_InvalidateDriver(t *testing.T) {
	c := cache.New(time.Hour)
	var calls atomic.Int32

	_, err := c.GetOrLoad(t.Context(), "d1", "active", loader(&calls, 1))
	require.NoError(t, err)
	_, err = c.GetOrLoad(t.Context(), "d1", "payouts", loader(&calls, 2))
	require.NoError(t, err)
	_, err = c.GetOrLoad(t.Context(), "d2", "active", loader(&calls, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	c.InvalidateDriver("d1")
	assert.Equal(t, 1, c.Len())

	v, err := c.GetOrLoad(t.Context(), "d2", "active", loader(&calls, 99))
	require.NoError(t, err)
	assert.Equal(t, 3, v, "other drivers keep their views")
}

func TestViewCache_ErrorsAreNotCached(t *testing.T) {
	c := cache.New(time.Hour)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(t.Context(), "d1", "active", func(context.Context) (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	var calls atomic.Int32
	v, err := c.GetOrLoad(t.Context(), "d1", "active", loader(&calls, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestViewCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	c := cache.New(time.Hour)
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad(context.Background(), "d1", "active", load)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, v := range results {
		assert.Equal(t, "v", v)
	}
}

func TestViewCache_InvalidationDiscardsInflightLoad(t *testing.T) {
	c := cache.New(time.Hour)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any)
	go func() {
		v, _ := c.GetOrLoad(context.Background(), "d1", "active", func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	c.InvalidateDriver("d1")
	close(release)
	assert.Equal(t, "stale", <-done)

	var calls atomic.Int32
	v, err := c.GetOrLoad(t.Context(), "d1", "active", loader(&calls, "fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.EqualValues(t, 1, calls.Load())
}

func TestViewCache_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	c := cache.New(time.Minute, cache.WithClock(clock.Now))
	var calls atomic.Int32

	_, err := c.GetOrLoad(t.Context(), "d1", "active", loader(&calls, 1))
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, err = c.GetOrLoad(t.Context(), "d1", "archive", loader(&calls, 2))
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
}
