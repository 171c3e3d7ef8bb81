// Package crawl provides domain-scoped crawl orchestration.
// It coordinates fetching, content extraction, link discovery and the
// domain policy over an explicit worklist with a shared visited set.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/scopecrawl/scopecrawl"
)

// Visited set sizing.
const (
	// visitedExpectedURLs is the expected number of URLs for Bloom filter sizing.
	visitedExpectedURLs = 10000
	// visitedFalsePositiveRate is the Bloom filter false positive rate.
	visitedFalsePositiveRate = 0.01
)

// Crawler orchestrates a domain-scoped recursive crawl.
// A Crawler holds no per-run state and may be reused for several crawls.
type Crawler struct {
	Fetcher   scopecrawl.Fetcher
	Extractor scopecrawl.Extractor
	Links     scopecrawl.LinkDiscoverer
	Policy    scopecrawl.DomainPolicy

	// RateLimiter is optional. When nil, requests are not throttled.
	RateLimiter scopecrawl.DomainLimiter

	// Logger is optional. When nil, nothing is logged.
	Logger *slog.Logger

	// Concurrency is the number of pages processed at once. Defaults to 1,
	// which visits pages one at a time in depth-first order.
	Concurrency int

	// RetryDelays are the waits between fetch attempts. Nil or empty means a
	// failed fetch is not retried.
	RetryDelays []time.Duration

	// MaxPages caps the number of URLs visited. Zero means no limit.
	MaxPages int
}

// Result holds the outcome of a crawl.
type Result struct {
	// Records holds one record per successfully processed page,
	// in completion order.
	Records []*scopecrawl.Record

	// Visits holds the outcome of every claimed URL, in completion order.
	// URLs claimed but not processed when the crawl stopped are VisitSkipped.
	Visits []scopecrawl.Visit

	Recorded int
	Failed   int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type     ProgressType
	URL      string
	Recorded int
	Failed   int
	Queued   int
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRecorded
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It is always called from a single goroutine.
type ProgressFunc func(event ProgressEvent)

// crawlResult holds the outcome of processing a single link.
type crawlResult struct {
	link   scopecrawl.Link
	record *scopecrawl.Record
	links  []string
	err    error
}

// Crawl visits seed and every page reachable from it that the domain policy
// permits, and returns the accumulated records.
//
// The seed itself is visited without a policy check. Pages whose fetch or
// extraction fails are logged and skipped. The crawl ends when no permitted
// links remain, when MaxPages is reached, when ctx is canceled, or when the
// fetcher reports EUNAVAILABLE. In the last two cases the partial result is
// returned together with the error.
func (c *Crawler) Crawl(ctx context.Context, seed string, progress ProgressFunc) (*Result, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, scopecrawl.Errorf(scopecrawl.EINVALID, "invalid seed URL: %v", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, scopecrawl.Errorf(scopecrawl.EINVALID, "seed URL must be absolute http(s): %q", seed)
	}

	s := &session{
		crawler:  c,
		logger:   c.logger(),
		progress: progress,
		frontier: NewFrontier(),
		visited:  NewVisitedSet(visitedExpectedURLs, visitedFalsePositiveRate),
		result:   &Result{},
	}
	s.frontier.Push(scopecrawl.Link{URL: seed})

	s.notify(ProgressEvent{Type: ProgressStarted, URL: seed, Queued: 1})
	c.walk(ctx, s)
	s.notify(ProgressEvent{Type: ProgressFinished})

	if s.fatal != nil {
		return s.result, s.fatal
	}
	return s.result, ctx.Err()
}

// visit fetches a single link, builds its record and, for pages eligible for
// deep crawling, discovers its links. It runs on a worker goroutine.
func (c *Crawler) visit(ctx context.Context, link scopecrawl.Link) crawlResult {
	result := crawlResult{link: link}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, scopecrawl.Domain(link.URL)); err != nil {
			result.err = err
			return result
		}
	}

	logger := c.logger()
	html, err := FetchWithRetry(ctx, c.Fetcher, link.URL, c.RetryDelays, logger)
	if err != nil {
		result.err = err
		return result
	}

	extracted, err := c.Extractor.Extract(html, link.URL)
	if err != nil {
		result.err = err
		return result
	}
	result.record = scopecrawl.NewRecord(extracted)

	// Leaf page: fetched but not expanded.
	if !c.Policy.IsDeepCrawlEligible(link.URL) {
		return result
	}

	links, err := c.Links.DiscoverLinks(html, link.URL)
	if err != nil {
		logger.Warn("link discovery failed", "url", link.URL, "err", err)
		return result
	}
	result.links = links
	return result
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return 1
	}
	return c.Concurrency
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// session is the state of a single crawl run. Only the coordinator
// goroutine touches result, fatal and progress.
type session struct {
	crawler  *Crawler
	logger   *slog.Logger
	progress ProgressFunc
	frontier *Frontier
	visited  *VisitedSet
	result   *Result
	fatal    error
}

// next pops links until one can be claimed.
// Returns false when the frontier is exhausted or MaxPages is reached.
func (s *session) next() (scopecrawl.Link, bool) {
	limit := s.crawler.MaxPages
	for {
		if limit > 0 && s.visited.Len() >= limit {
			return scopecrawl.Link{}, false
		}
		link, ok := s.frontier.Pop()
		if !ok {
			return scopecrawl.Link{}, false
		}
		if s.visited.Claim(link.URL) {
			return link, true
		}
	}
}

// handle folds a worker's result into the session and pushes the
// permitted links it discovered.
func (s *session) handle(res *crawlResult) {
	if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
		s.skip(res.link, res.err)
		return
	}
	if res.err != nil {
		s.result.Failed++
		s.result.Visits = append(s.result.Visits, scopecrawl.Visit{
			URL:    res.link.URL,
			Parent: res.link.Parent,
			Status: scopecrawl.VisitFailed,
			Error:  res.err.Error(),
		})
		s.logger.Warn("visit failed", "url", res.link.URL, "err", res.err)
		if scopecrawl.ErrorCode(res.err) == scopecrawl.EUNAVAILABLE && s.fatal == nil {
			s.fatal = res.err
		}
		s.notify(ProgressEvent{Type: ProgressFailed, URL: res.link.URL, Error: res.err})
		return
	}

	s.result.Recorded++
	s.result.Records = append(s.result.Records, res.record)
	s.result.Visits = append(s.result.Visits, scopecrawl.Visit{
		URL:    res.link.URL,
		Parent: res.link.Parent,
		Status: scopecrawl.VisitRecorded,
	})

	for _, discovered := range res.links {
		if s.visited.Seen(discovered) {
			continue
		}
		if !s.crawler.Policy.IsVisitable(discovered, res.link.URL) {
			continue
		}
		s.frontier.Push(scopecrawl.Link{URL: discovered, Parent: res.link.URL})
	}

	s.notify(ProgressEvent{Type: ProgressRecorded, URL: res.link.URL})
}

// skip records a claimed link that the crawl stopped before processing.
func (s *session) skip(link scopecrawl.Link, reason error) {
	s.result.Visits = append(s.result.Visits, scopecrawl.Visit{
		URL:    link.URL,
		Parent: link.Parent,
		Status: scopecrawl.VisitSkipped,
		Error:  reason.Error(),
	})
	s.logger.Debug("visit skipped", "url", link.URL, "reason", reason)
}

func (s *session) notify(event ProgressEvent) {
	if s.progress == nil {
		return
	}
	event.Recorded = s.result.Recorded
	event.Failed = s.result.Failed
	if event.Queued == 0 {
		event.Queued = s.frontier.Len()
	}
	s.progress(event)
}
