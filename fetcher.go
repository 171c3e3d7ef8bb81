package scopecrawl

import "context"

// Fetcher turns a URL into the HTML a crawler should read. Browser-backed
// implementations return the DOM after scripts have run; the plain HTTP
// implementation returns the response body as served.
//
// Fetch returns ctx.Err() unwrapped when the caller's context ends first so
// callers can test it with errors.Is. Any other failure to obtain the page is
// reported as EFETCH, and a backend that can no longer serve requests at all
// (a dead browser) reports EUNAVAILABLE.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases the backend. Fetch calls after Close return EINVALID.
	Close() error
}
