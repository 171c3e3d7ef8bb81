// Package scopecrawl provides a domain-scoped recursive web crawler.
// It starts from a seed URL, renders pages in a headless browser, extracts
// visible text, and follows links according to a multi-domain policy:
// unlimited recursion within the primary domain, single-hop visits to
// secondary domains, and no visits to blocked domains.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package scopecrawl
