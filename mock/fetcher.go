package mock

import (
	"context"

	"github.com/scopecrawl/scopecrawl"
)

var _ scopecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of scopecrawl.Fetcher.
// A nil CloseFn makes Close a no-op so tests only stub what they exercise.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
