package crawl

import "github.com/scopecrawl/scopecrawl"

// Compile-time interface verification.
var _ scopecrawl.DomainPolicy = (*Policy)(nil)

// Policy implements scopecrawl.DomainPolicy over a fixed set of domains.
// The zero value rejects everything; use NewPolicy.
type Policy struct {
	primary   string
	secondary map[string]struct{}
	blocked   map[string]struct{}
}

// NewPolicy builds a Policy from domain sets. Domain names are trimmed and
// case-folded. Returns EINVALID if the primary domain is empty.
func NewPolicy(sets scopecrawl.DomainSets) (*Policy, error) {
	if err := sets.Validate(); err != nil {
		return nil, err
	}

	p := &Policy{
		primary:   scopecrawl.NormalizeDomain(sets.Primary),
		secondary: make(map[string]struct{}),
		blocked:   make(map[string]struct{}),
	}
	for _, d := range sets.Blocked {
		if d = scopecrawl.NormalizeDomain(d); d != "" {
			p.blocked[d] = struct{}{}
		}
	}
	for _, d := range sets.Allowed {
		if d = scopecrawl.NormalizeDomain(d); d != "" && d != p.primary {
			p.secondary[d] = struct{}{}
		}
	}
	return p, nil
}

// Primary returns the primary domain.
func (p *Policy) Primary() string {
	return p.primary
}

// IsVisitable reports whether candidateURL, discovered on parentURL, may be visited.
//
// Blocked domains are rejected before any other rule. Primary-domain URLs
// are always visitable. Secondary domains are visitable only as a direct
// link from a primary-domain page.
func (p *Policy) IsVisitable(candidateURL, parentURL string) bool {
	domain := scopecrawl.Domain(candidateURL)
	if domain == "" {
		return false
	}
	if _, ok := p.blocked[domain]; ok {
		return false
	}
	if domain == p.primary {
		return true
	}
	if _, ok := p.secondary[domain]; !ok {
		return false
	}
	return scopecrawl.Domain(parentURL) == p.primary
}

// IsDeepCrawlEligible reports whether rawURL is on the primary domain.
func (p *Policy) IsDeepCrawlEligible(rawURL string) bool {
	domain := scopecrawl.Domain(rawURL)
	return domain != "" && domain == p.primary
}
