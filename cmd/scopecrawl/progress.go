package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/scopecrawl/scopecrawl/crawl"
)

// spinnerURLWidth is the display width for the current URL.
const spinnerURLWidth = 60

// progressSpinner shows crawl progress on a terminal.
type progressSpinner struct {
	spin *spinner.Spinner
}

func newProgressSpinner(w io.Writer) *progressSpinner {
	return &progressSpinner{
		spin: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

// Report implements crawl.ProgressFunc.
func (p *progressSpinner) Report(event crawl.ProgressEvent) {
	switch event.Type {
	case crawl.ProgressStarted:
		p.setSuffix(fmt.Sprintf(" crawling %s", crawl.ShortURL(event.URL, spinnerURLWidth)))
		p.spin.Start()
	case crawl.ProgressRecorded, crawl.ProgressFailed:
		p.setSuffix(fmt.Sprintf(" %d recorded, %d failed, %d queued  %s",
			event.Recorded, event.Failed, event.Queued, crawl.ShortURL(event.URL, spinnerURLWidth)))
	case crawl.ProgressFinished:
		p.spin.Stop()
	}
}

func (p *progressSpinner) setSuffix(s string) {
	p.spin.Lock()
	p.spin.Suffix = s
	p.spin.Unlock()
}

// chainProgress calls each non-nil fn in order.
func chainProgress(fns ...crawl.ProgressFunc) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		for _, fn := range fns {
			if fn != nil {
				fn(event)
			}
		}
	}
}
