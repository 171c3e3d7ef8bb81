// Package chromedp implements scopecrawl.Fetcher with headless Chrome driven
// over the DevTools protocol by chromedp. It is an alternative renderer to
// package rod for environments where chromedp's allocator is preferred.
package chromedp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/scopecrawl/scopecrawl"
)

// Fetch defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultSettleDelay  = 2 * time.Second
)

// Ensure Fetcher implements scopecrawl.Fetcher at compile time.
var _ scopecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using one browser process and a fresh tab
// per fetch. Fetcher is safe for concurrent use.
type Fetcher struct {
	timeout     time.Duration
	settleDelay time.Duration
	execPath    string

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	closeOnce sync.Once
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleDelay sets the wait between the page becoming ready and reading the DOM.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithExecPath points the allocator at a specific Chrome binary.
func WithExecPath(path string) Option {
	return func(f *Fetcher) {
		f.execPath = path
	}
}

// NewFetcher starts a headless browser. Close must be called when the
// Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	if f.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(f.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, scopecrawl.Errorf(scopecrawl.EUNAVAILABLE, "starting browser: %v", err)
	}

	f.allocCancel = allocCancel
	f.browserCtx = browserCtx
	f.browserCancel = browserCancel
	return f, nil
}

// Fetch opens a new tab, navigates to url, waits for the body and the
// settle delay, and returns the document's outer HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", scopecrawl.Errorf(scopecrawl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, f.timeout)
	defer timeoutCancel()

	// Tabs hang off the browser context, so caller cancellation is forwarded.
	stop := context.AfterFunc(ctx, timeoutCancel)
	defer stop()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if f.settleDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(f.settleDelay))
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(tabCtx.Err(), context.DeadlineExceeded) {
			return "", scopecrawl.Errorf(scopecrawl.EFETCH, "rendering %s: timed out after %s", url, f.timeout)
		}
		if f.browserCtx.Err() != nil {
			return "", scopecrawl.Errorf(scopecrawl.EUNAVAILABLE, "browser is not running")
		}
		return "", scopecrawl.Errorf(scopecrawl.EFETCH, "rendering %s: %v", url, err)
	}
	return html, nil
}

// Close shuts down the browser. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.browserCancel()
		f.allocCancel()
	})
	return nil
}
