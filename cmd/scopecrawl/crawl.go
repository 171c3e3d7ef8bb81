package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/crawl"
	"github.com/scopecrawl/scopecrawl/fs"
	"github.com/scopecrawl/scopecrawl/goquery"
	"github.com/scopecrawl/scopecrawl/prometheus"
	scopeslog "github.com/scopecrawl/scopecrawl/slog"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	logger := deps.logger()

	policy, err := crawl.NewPolicy(scopecrawl.DomainSets{
		Primary: c.Primary,
		Allowed: c.Allowed,
		Blocked: c.Blocked,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}

	var fetcher scopecrawl.Fetcher = scopeslog.NewLoggingFetcher(deps.Fetcher, logger)
	var metrics *prometheus.Metrics
	if c.MetricsFile != "" {
		metrics = prometheus.NewMetrics()
		fetcher = prometheus.NewFetcher(fetcher, metrics)
	}

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   goquery.NewExtractor(),
		Links:       scopeslog.NewLoggingDiscoverer(goquery.NewLinkDiscoverer(), logger),
		Policy:      policy,
		Logger:      logger,
		Concurrency: c.Concurrency,
		RetryDelays: crawl.RetryDelays(c.Retries),
		MaxPages:    c.MaxPages,
	}
	if c.Rate > 0 {
		crawler.RateLimiter = crawl.NewDomainLimiter(c.Rate, crawl.WithBurst(c.Burst))
	}

	var spin crawl.ProgressFunc
	if deps.Interactive {
		spin = newProgressSpinner(deps.Stderr).Report
	}
	var observe crawl.ProgressFunc
	if metrics != nil {
		observe = metrics.Progress
	}

	logger.Info("crawl started", "seed", c.Seed, "primary", policy.Primary(), "renderer", c.Renderer)
	startedAt := time.Now().UTC()
	result, crawlErr := crawler.Crawl(deps.Ctx, c.Seed, chainProgress(spin, observe))
	if result == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(crawlErr))
		return crawlErr
	}
	finishedAt := time.Now().UTC()

	// Partial results are persisted even when the crawl was interrupted.
	ctx := context.WithoutCancel(deps.Ctx)

	store := scopeslog.NewLoggingRecordStore(fs.NewRecordStore(c.Output), logger)
	if err := store.SaveRecords(ctx, result.Records); err != nil {
		fmt.Fprintf(deps.Stderr, "error: writing %s: %v\n", c.Output, err)
		return err
	}

	if deps.Runs != nil {
		run := &scopecrawl.Run{
			Seed:       c.Seed,
			Primary:    policy.Primary(),
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Recorded:   result.Recorded,
			Failed:     result.Failed,
		}
		if err := deps.Runs.CreateRun(ctx, run, result.Visits, result.Records); err != nil {
			logger.Warn("recording crawl history failed", "err", err)
		} else {
			logger.Info("crawl recorded", "run", run.ID)
		}
	}

	if metrics != nil {
		if err := metrics.WriteToTextfile(c.MetricsFile); err != nil {
			logger.Warn("writing metrics failed", "path", c.MetricsFile, "err", err)
		}
	}

	fmt.Fprintf(deps.Stdout, "%s; wrote %s\n", result.Summary(), c.Output)

	switch {
	case crawlErr == nil:
		return nil
	case errors.Is(crawlErr, context.Canceled):
		fmt.Fprintln(deps.Stderr, "crawl interrupted; partial output saved")
	default:
		fmt.Fprintf(deps.Stderr, "error: crawl stopped early: %s\n", scopecrawl.ErrorMessage(crawlErr))
	}
	return crawlErr
}
