package scopecrawl

// LinkDiscoverer extracts outbound links from HTML.
type LinkDiscoverer interface {
	// DiscoverLinks parses HTML and returns the deduplicated absolute URLs
	// of its anchors. Relative hrefs are resolved against baseURL and
	// fragments are stripped. Malformed or empty hrefs are skipped.
	// Callers must not depend on the order of the result.
	DiscoverLinks(html string, baseURL string) ([]string, error)
}
