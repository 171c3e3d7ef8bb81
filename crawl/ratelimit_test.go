package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scopecrawl/scopecrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request to a host is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("throttles repeated requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10) // one token every 100ms

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("host keys ignore case and whitespace", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		require.NoError(t, limiter.Wait(context.Background(), "Example.COM"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), " example.com "))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts have independent buckets", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "other.com"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("burst lets several requests through at once", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1, crawl.WithBurst(3))

		start := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		}
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("zero rate never blocks", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0)

		start := time.Now()
		for range 10 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("zero rate still reports a canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := crawl.NewDomainLimiter(0).Wait(ctx, "example.com")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("gives up when the context expires", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})

	t.Run("concurrent waiters all complete", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Go(func() {
				if limiter.Wait(context.Background(), "example.com") == nil {
					completed.Add(1)
				}
			})
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}
