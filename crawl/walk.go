package crawl

import (
	"context"

	"github.com/scopecrawl/scopecrawl"
	"golang.org/x/sync/errgroup"
)

// walk runs the crawl loop for a session.
//
// A single coordinator (the calling goroutine) owns the frontier and the
// result; a pool of workers fetches and processes pages. Links are claimed
// in the visited set by the coordinator before they are dispatched, so no
// URL is handed to more than one worker.
func (c *Crawler) walk(ctx context.Context, s *session) {
	concurrency := c.concurrency()

	workCh := make(chan scopecrawl.Link)
	resultCh := make(chan crawlResult)

	g, gctx := errgroup.WithContext(ctx)
	for range concurrency {
		g.Go(func() error {
			for link := range workCh {
				result := c.visit(gctx, link)
				select {
				case resultCh <- result:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	// Close result channel when all workers are done
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	pending := 0
	var next scopecrawl.Link
	hasNext := false

coordinatorLoop:
	for {
		if !hasNext && s.fatal == nil {
			next, hasNext = s.next()
		}
		if !hasNext && pending == 0 {
			break
		}

		// A nil channel disables the dispatch case.
		var dispatch chan<- scopecrawl.Link
		if hasNext {
			dispatch = workCh
		}

		select {
		case <-ctx.Done():
			if hasNext {
				s.skip(next, ctx.Err())
			}
			break coordinatorLoop
		case dispatch <- next:
			pending++
			hasNext = false
		case result := <-resultCh:
			pending--
			s.handle(&result)
			if s.fatal != nil && hasNext {
				s.skip(next, s.fatal)
				hasNext = false
			}
		}
	}

	// Signal workers to stop and collect in-flight results
	close(workCh)
	for result := range resultCh {
		s.handle(&result)
	}
}
