// Package rod implements scopecrawl.Fetcher with headless Chrome driven by go-rod.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/scopecrawl/scopecrawl"
)

// Fetch defaults.
const (
	// DefaultFetchTimeout bounds a single page fetch, including the settle delay.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultSettleDelay is the wait after the load event before the DOM is read,
	// giving asynchronous content time to populate.
	DefaultSettleDelay = 2 * time.Second
)

// Ensure Fetcher implements scopecrawl.Fetcher at compile time.
var _ scopecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Every Fetch opens its own page, so a page is owned by exactly one
// in-flight fetch. Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	timeout     time.Duration
	settleDelay time.Duration
	maxPages    int64
	bin         string
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleDelay sets the wait between the load event and reading the DOM.
// Defaults to DefaultSettleDelay if not specified.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithRecycleAfter sets how many pages are rendered before the browser is restarted.
// Defaults to DefaultMaxPages if not specified.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithBrowserBin runs the Chrome binary at path.
func WithBrowserBin(path string) Option {
	return func(f *Fetcher) {
		f.bin = path
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		settleDelay: DefaultSettleDelay,
		maxPages:    DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages), WithBin(f.bin))
	if err != nil {
		return nil, scopecrawl.Errorf(scopecrawl.EUNAVAILABLE, "starting browser: %v", err)
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL, waits for the load event and the settle delay,
// and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", scopecrawl.Errorf(scopecrawl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pageCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser := f.manager.Acquire()
	defer f.manager.Release()
	if browser == nil {
		return "", scopecrawl.Errorf(scopecrawl.EUNAVAILABLE, "browser is not running")
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", scopecrawl.Errorf(scopecrawl.EUNAVAILABLE, "opening page: %v", err)
	}
	defer page.Close()

	// Every call on page below is bounded by pageCtx.
	page = page.Context(pageCtx)

	if err := page.Navigate(url); err != nil {
		return "", f.fetchError(ctx, pageCtx, "navigating to", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.fetchError(ctx, pageCtx, "waiting for load of", url, err)
	}

	if f.settleDelay > 0 {
		t := time.NewTimer(f.settleDelay)
		select {
		case <-pageCtx.Done():
			t.Stop()
			return "", f.fetchError(ctx, pageCtx, "settling", url, pageCtx.Err())
		case <-t.C:
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.fetchError(ctx, pageCtx, "reading", url, err)
	}
	return html, nil
}

// fetchError returns the caller's context error unwrapped so it can be
// matched with errors.Is. Running out of the per-page timeout and any other
// failure are EFETCH.
func (f *Fetcher) fetchError(ctx, pageCtx context.Context, op, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if pageCtx.Err() != nil {
		return scopecrawl.Errorf(scopecrawl.EFETCH, "%s %s: timed out after %s", op, url, f.timeout)
	}
	return scopecrawl.Errorf(scopecrawl.EFETCH, "%s %s: %v", op, url, err)
}

// Close shuts down the browser. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
