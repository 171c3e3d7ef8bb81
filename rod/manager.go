package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages rendered before the browser
// is restarted.
const DefaultMaxPages = 75

// BrowserManager owns the Chrome process behind a Fetcher and restarts it
// after a fixed number of pages, since Chrome's resident memory keeps growing
// over a long crawl even when every page is closed.
//
// Callers bracket each page with Acquire and Release. Once the page budget is
// spent, new Acquires wait until the pages already in flight are released,
// then the browser is swapped. A restart never closes a page another fetch
// owns, and a steady stream of concurrent fetches cannot postpone it.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	maxPages int64
	bin      string

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	drained  *sync.Cond
	rendered int64
	inFlight int
	draining bool
	restarts int

	closed atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages are rendered before a restart.
// Zero or less disables restarts.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBin launches the Chrome binary at path instead of the one the launcher
// finds or downloads.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches headless Chrome.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	bm.drained = sync.NewCond(&bm.mu)
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch(bm.bin)
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Acquire returns the browser to open a page in and marks that page in
// flight. When the page budget is spent it blocks until every page in flight
// is released and the browser has been restarted. Every Acquire must be
// paired with a Release. Returns nil after Close.
func (bm *BrowserManager) Acquire() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.maxPages > 0 && bm.rendered >= bm.maxPages {
		bm.draining = true
	}
	for bm.draining && !bm.closed.Load() {
		if bm.inFlight == 0 {
			bm.restart()
			bm.draining = false
			bm.drained.Broadcast()
			break
		}
		bm.drained.Wait()
	}
	bm.inFlight++
	return bm.browser
}

// Release ends a page started with Acquire and counts it toward the budget.
func (bm *BrowserManager) Release() {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.inFlight--
	bm.rendered++
	if bm.inFlight == 0 && bm.draining {
		bm.drained.Broadcast()
	}
}

// Restarts returns how many times the browser has been replaced.
func (bm *BrowserManager) Restarts() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.restarts
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	bm.drained.Broadcast()
	return err
}

// restart swaps in a fresh browser. If the new one fails to start the old
// one stays in service for another full budget.
// Must be called with mu held.
func (bm *BrowserManager) restart() {
	browser, l, err := launch(bm.bin)
	if err != nil {
		bm.rendered = 0
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.rendered = 0
	bm.restarts++
}

// LauncherPID returns the process ID of the browser launcher, or 0 after
// Close. Tests use it to check that processes are reaped.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// launch starts headless Chrome with flags that keep background pages from
// being throttled, and connects to it.
func launch(bin string) (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
