package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Pop_returns_most_recent_first(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(scopecrawl.Link{URL: "https://example.com/a"})
	f.Push(scopecrawl.Link{URL: "https://example.com/b", Parent: "https://example.com/a"})

	link, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, scopecrawl.Link{URL: "https://example.com/b", Parent: "https://example.com/a"}, link)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a", link.URL)

	_, ok = f.Pop()
	assert.False(t, ok, "empty frontier should return false")
}

func TestFrontier_Push_strips_fragment(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(scopecrawl.Link{URL: "https://example.com/docs#section"})

	link, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/docs", link.URL)
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	assert.Equal(t, 0, f.Len())

	f.Push(scopecrawl.Link{URL: "https://example.com/1"})
	f.Push(scopecrawl.Link{URL: "https://example.com/2"})
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Push(scopecrawl.Link{URL: fmt.Sprintf("https://example.com/page%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, f.Len())

	popped := 0
	for {
		if _, ok := f.Pop(); !ok {
			break
		}
		popped++
	}
	assert.Equal(t, 100, popped)
}
