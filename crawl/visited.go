package crawl

import (
	"strings"
	"sync"

	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/bloom"
)

// Compile-time interface verification.
var _ scopecrawl.VisitedSet = (*VisitedSet)(nil)

// VisitedSet records the URLs claimed during one crawl run.
// A Bloom filter answers most negative lookups; an exact set backs it up so
// false positives never cause a URL to be skipped.
// It is safe for concurrent use by multiple goroutines.
type VisitedSet struct {
	mu     sync.Mutex
	filter *bloom.Filter
	urls   map[string]struct{}
}

// NewVisitedSet creates a VisitedSet sized for n expected URLs
// with the given Bloom filter false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewFilter(n, fpRate),
		urls:   make(map[string]struct{}),
	}
}

// Claim marks the URL as visited and returns true if it was not visited before.
// URL fragments are stripped first.
func (s *VisitedSet) Claim(rawURL string) bool {
	url := stripFragment(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.TestAndAdd(url) {
		if _, ok := s.urls[url]; ok {
			return false
		}
	}
	s.urls[url] = struct{}{}
	return true
}

// Seen returns true if the URL has been claimed.
// URL fragments are stripped before checking.
func (s *VisitedSet) Seen(rawURL string) bool {
	url := stripFragment(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen(url)
}

// Len returns the number of claimed URLs.
func (s *VisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// seen must be called with mu held.
func (s *VisitedSet) seen(url string) bool {
	if !s.filter.Test(url) {
		return false
	}
	_, ok := s.urls[url]
	return ok
}

// stripFragment removes everything from the first '#'.
func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
