package mock

import "github.com/scopecrawl/scopecrawl"

var _ scopecrawl.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of scopecrawl.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverLinksFn func(html string, baseURL string) ([]string, error)
}

func (d *LinkDiscoverer) DiscoverLinks(html string, baseURL string) ([]string, error) {
	return d.DiscoverLinksFn(html, baseURL)
}

var _ scopecrawl.DomainPolicy = (*DomainPolicy)(nil)

// DomainPolicy is a mock implementation of scopecrawl.DomainPolicy.
type DomainPolicy struct {
	IsVisitableFn         func(candidateURL, parentURL string) bool
	IsDeepCrawlEligibleFn func(rawURL string) bool
}

func (p *DomainPolicy) IsVisitable(candidateURL, parentURL string) bool {
	return p.IsVisitableFn(candidateURL, parentURL)
}

func (p *DomainPolicy) IsDeepCrawlEligible(rawURL string) bool {
	return p.IsDeepCrawlEligibleFn(rawURL)
}
