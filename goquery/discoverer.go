// Package goquery implements link discovery and visible-text extraction
// on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scopecrawl/scopecrawl"
)

var _ scopecrawl.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer extracts every anchor link from a page.
type LinkDiscoverer struct{}

// NewLinkDiscoverer creates a new LinkDiscoverer.
func NewLinkDiscoverer() *LinkDiscoverer {
	return &LinkDiscoverer{}
}

// DiscoverLinks parses HTML and returns the absolute URLs of all anchors,
// deduplicated, in order of first occurrence.
//
// Fragments are stripped before resolution. Hrefs that are empty after
// stripping, unparsable, or resolve to a non-HTTP scheme (mailto:,
// javascript:, tel:, ...) are skipped.
func (d *LinkDiscoverer) DiscoverLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, scopecrawl.Errorf(scopecrawl.EINVALID, "invalid base URL: %v", err)
	}
	if !base.IsAbs() {
		return nil, scopecrawl.Errorf(scopecrawl.EINVALID, "base URL must be absolute: %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scopecrawl.Errorf(scopecrawl.EPARSE, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL strips the fragment from href and resolves it against base.
// Returns an empty string if the href should be skipped.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if idx := strings.Index(href, "#"); idx != -1 {
		href = href[:idx]
	}
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}
