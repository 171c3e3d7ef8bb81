package scopecrawl

import (
	"net/url"
	"strings"
)

// DomainSets configures which domains a crawl may visit.
type DomainSets struct {
	// Primary is the only domain eligible for recursive crawling.
	// It is implicitly allowed.
	Primary string

	// Allowed lists the domains eligible for visiting. Allowed domains other
	// than Primary are secondary: visited only as a direct link from a
	// primary-domain page and never expanded.
	Allowed []string

	// Blocked lists domains that are never visited.
	// Blocked takes precedence over Allowed and Primary.
	Blocked []string
}

// Validate returns an error if the domain sets are unusable.
func (s *DomainSets) Validate() error {
	if NormalizeDomain(s.Primary) == "" {
		return Errorf(EINVALID, "primary domain required")
	}
	return nil
}

// DomainPolicy decides which discovered links a crawl follows.
type DomainPolicy interface {
	// IsVisitable reports whether candidateURL, discovered on parentURL,
	// may be visited.
	IsVisitable(candidateURL, parentURL string) bool

	// IsDeepCrawlEligible reports whether links found on the page at rawURL
	// should be explored.
	IsDeepCrawlEligible(rawURL string) bool
}

// Domain returns the case-folded host of rawURL without its port.
// Returns an empty string if rawURL cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// NormalizeDomain trims and case-folds a configured domain name.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
