// Package http implements scopecrawl.Fetcher with plain HTTP requests for
// sites that serve their content without JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/scopecrawl/scopecrawl"
)

// Fetch defaults.
const (
	// DefaultFetchTimeout bounds a single request including reading the body.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 << 20

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "scopecrawl/1.0 (+https://github.com/scopecrawl/scopecrawl)"
)

// Ensure Fetcher implements scopecrawl.Fetcher at compile time.
var _ scopecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw HTML from URLs using HTTP GET requests.
// Unlike rod.Fetcher it does not execute JavaScript, so content that a
// page builds in the browser is missing from the result.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize limits how many bytes of a response are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML body of the given URL. Any status other than
// 200 OK is an EFETCH error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", scopecrawl.Errorf(scopecrawl.EINVALID, "fetcher is closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", scopecrawl.Errorf(scopecrawl.EINVALID, "building request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", scopecrawl.Errorf(scopecrawl.EFETCH, "requesting %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", scopecrawl.Errorf(scopecrawl.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", scopecrawl.Errorf(scopecrawl.EFETCH, "reading %s: %v", url, err)
	}

	return string(body), nil
}

// Close drops idle keep-alive connections. Later Fetch calls fail.
func (f *Fetcher) Close() error {
	f.closed.Store(true)
	f.client.CloseIdleConnections()
	return nil
}
