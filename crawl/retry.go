package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scopecrawl/scopecrawl"
)

// MaxRetryDelay caps a single backoff step.
const MaxRetryDelay = 30 * time.Second

// RetryDelays returns n exponential backoff delays starting at 1s
// (1s, 2s, 4s, ...), each capped at MaxRetryDelay. Returns nil for n <= 0.
func RetryDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := time.Second
	for i := range delays {
		delays[i] = min(d, MaxRetryDelay)
		d *= 2
	}
	return delays
}

// Retryable reports whether a failed fetch is worth repeating. Context errors
// belong to the caller, EUNAVAILABLE means the backend is gone and EINVALID
// will fail the same way again.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch scopecrawl.ErrorCode(err) {
	case scopecrawl.EUNAVAILABLE, scopecrawl.EINVALID:
		return false
	}
	return true
}

// FetchWithRetry fetches url, sleeping for each of delays in turn between
// attempts while the error stays retryable. With no delays the URL is
// fetched exactly once. The last error is returned when attempts run out.
func FetchWithRetry(ctx context.Context, f scopecrawl.Fetcher, url string, delays []time.Duration, logger *slog.Logger) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := f.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt >= len(delays) || !Retryable(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "delay", delays[attempt], "err", err)
		}

		t := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
}
