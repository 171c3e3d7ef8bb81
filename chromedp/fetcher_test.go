//go:build integration

package chromedp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body>
<div id="app"></div>
<script>document.getElementById("app").textContent = "rendered 7";</script>
</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := chromedp.NewFetcher(chromedp.WithSettleDelay(100 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "rendered 7")
}

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	fetcher, err := chromedp.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = fetcher.Fetch(ctx, "https://example.com")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Fetch_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	fetcher, err := chromedp.NewFetcher(chromedp.WithFetchTimeout(200 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.Fetch(context.Background(), srv.URL)

	assert.Equal(t, scopecrawl.EFETCH, scopecrawl.ErrorCode(err))
	assert.Contains(t, scopecrawl.ErrorMessage(err), "timed out")
}

func TestFetcher_Fetch_AfterClose(t *testing.T) {
	t.Parallel()

	fetcher, err := chromedp.NewFetcher()
	require.NoError(t, err)
	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())

	_, err = fetcher.Fetch(context.Background(), "https://example.com")

	assert.Equal(t, scopecrawl.EINVALID, scopecrawl.ErrorCode(err))
}
