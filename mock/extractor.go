package mock

import "github.com/scopecrawl/scopecrawl"

var _ scopecrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scopecrawl.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*scopecrawl.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*scopecrawl.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
