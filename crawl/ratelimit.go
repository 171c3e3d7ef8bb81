package crawl

import (
	"context"
	"sync"

	"github.com/scopecrawl/scopecrawl"
	"golang.org/x/time/rate"
)

var _ scopecrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter throttles fetches with one token bucket per host. Hosts are
// keyed case-insensitively so "Example.com" and "example.com" share a bucket.
type DomainLimiter struct {
	rps   float64
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst lets up to n requests to a host go through back to back before
// throttling starts. Values below 1 are treated as 1.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		d.burst = max(n, 1)
	}
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each host. A non-positive rps disables throttling.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		rps:     rps,
		burst:   1,
		buckets: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.bucket(scopecrawl.NormalizeDomain(domain)).Wait(ctx)
}

func (d *DomainLimiter) bucket(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[domain]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.buckets[domain] = b
	}
	return b
}
