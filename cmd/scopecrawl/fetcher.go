package main

import (
	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/chromedp"
	scopehttp "github.com/scopecrawl/scopecrawl/http"
	"github.com/scopecrawl/scopecrawl/rod"
)

// newFetcher builds the fetcher selected by --renderer.
func newFetcher(cmd *CrawlCmd) (scopecrawl.Fetcher, error) {
	switch cmd.Renderer {
	case "http":
		return scopehttp.NewFetcher(scopehttp.WithTimeout(cmd.Timeout)), nil
	case "chromedp":
		f, err := chromedp.NewFetcher(
			chromedp.WithFetchTimeout(cmd.Timeout),
			chromedp.WithSettleDelay(cmd.SettleDelay),
			chromedp.WithExecPath(cmd.BrowserBin),
		)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "rod", "":
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cmd.Timeout),
			rod.WithSettleDelay(cmd.SettleDelay),
			rod.WithRecycleAfter(cmd.RecycleAfter),
			rod.WithBrowserBin(cmd.BrowserBin),
		)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, scopecrawl.Errorf(scopecrawl.EINVALID, "unknown renderer %q", cmd.Renderer)
	}
}
