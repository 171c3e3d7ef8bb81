package crawl

import (
	"sync"

	"github.com/scopecrawl/scopecrawl"
)

// Compile-time interface verification.
var _ scopecrawl.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory LIFO worklist of links. Popping the most recently
// pushed link gives a depth-first traversal without call-stack recursion.
// It does not deduplicate; the crawl's VisitedSet does.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	stack []scopecrawl.Link
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{}
}

// Push adds a link to the frontier. The URL fragment is stripped.
func (f *Frontier) Push(link scopecrawl.Link) {
	link.URL = stripFragment(link.URL)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.stack = append(f.stack, link)
}

// Pop returns the most recently pushed link.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (scopecrawl.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.stack)
	if n == 0 {
		return scopecrawl.Link{}, false
	}
	link := f.stack[n-1]
	f.stack[n-1] = scopecrawl.Link{}
	f.stack = f.stack[:n-1]
	return link, true
}

// Len returns the number of links in the frontier.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stack)
}
