package scopecrawl

import "context"

// Link is a crawl worklist item: a URL and the page it was discovered on.
// Parent is empty for the seed URL.
type Link struct {
	URL    string
	Parent string
}

// URLFrontier holds links waiting to be visited.
type URLFrontier interface {
	// Push adds a link to the frontier.
	Push(link Link)

	// Pop returns the next link to visit.
	// Returns false if the frontier is empty.
	Pop() (Link, bool)

	// Len returns the number of links in the frontier.
	Len() int
}

// VisitedSet tracks the URLs claimed during a single crawl run.
type VisitedSet interface {
	// Claim marks the URL as visited and reports whether the caller is the
	// first to do so. Membership check and insert are a single atomic step.
	Claim(url string) bool

	// Seen returns true if the URL has already been claimed.
	Seen(url string) bool

	// Len returns the number of claimed URLs.
	Len() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
