package mock

import (
	"context"

	"github.com/scopecrawl/scopecrawl"
)

var _ scopecrawl.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of scopecrawl.URLFrontier.
type URLFrontier struct {
	PushFn func(link scopecrawl.Link)
	PopFn  func() (scopecrawl.Link, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(link scopecrawl.Link) {
	f.PushFn(link)
}

func (f *URLFrontier) Pop() (scopecrawl.Link, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

var _ scopecrawl.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is a mock implementation of scopecrawl.VisitedSet.
type VisitedSet struct {
	ClaimFn func(url string) bool
	SeenFn  func(url string) bool
	LenFn   func() int
}

func (s *VisitedSet) Claim(url string) bool {
	return s.ClaimFn(url)
}

func (s *VisitedSet) Seen(url string) bool {
	return s.SeenFn(url)
}

func (s *VisitedSet) Len() int {
	return s.LenFn()
}

var _ scopecrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of scopecrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
