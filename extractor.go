package scopecrawl

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the text of the page's title element, or the page URL
	// when the document has no title element.
	Title string

	// Text is the visible text of the page, one trimmed text node per line.
	// Script, style, noscript, meta, head, footer and nav content is excluded.
	Text string
}

// Extractor extracts the title and visible text from HTML pages.
type Extractor interface {
	// Extract parses HTML fetched from pageURL and returns its title and
	// visible text. Malformed HTML is not an error: whatever the parser
	// recovers is extracted.
	Extract(html string, pageURL string) (*ExtractResult, error)
}
