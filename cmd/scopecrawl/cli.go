package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/scopecrawl/scopecrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Interactive is true when stderr is a terminal.
	Interactive bool

	Fetcher scopecrawl.Fetcher
	Runs    scopecrawl.RunService
	Records scopecrawl.RecordStore
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return discardLogger()
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    kong.ConfigFlag `help:"Load flag defaults from a JSON file"`
	DB        string          `name:"db" env:"SCOPECRAWL_DB" type:"path" help:"Crawl history database path"`
	Verbose   bool            `short:"v" env:"SCOPECRAWL_VERBOSE" help:"Enable debug logging"`
	LogFormat string          `default:"text" enum:"text,json" env:"SCOPECRAWL_LOG_FORMAT" help:"Log format (text, json)"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl the configured domains and write the JSON corpus"`
	Search SearchCmd `cmd:"" help:"Search crawled records for a phrase"`
	Runs   RunsCmd   `cmd:"" help:"List recorded crawl runs or show one"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seed    string   `default:"https://pragyan.nic.in" env:"SCOPECRAWL_SEED" help:"URL the crawl starts from"`
	Primary string   `default:"pragyan.nic.in" env:"SCOPECRAWL_PRIMARY" help:"Primary domain; only its pages are expanded"`
	Allowed []string `default:"pragyan.nic.in,nicsi.nic.in,nicsi.com" env:"SCOPECRAWL_ALLOWED" help:"Domains that may be visited"`
	Blocked []string `default:"cloud.nicsi.in" env:"SCOPECRAWL_BLOCKED" help:"Domains that are never visited"`
	Output  string   `short:"o" default:"company_data.json" env:"SCOPECRAWL_OUTPUT" type:"path" help:"JSON output file"`

	Renderer     string        `default:"rod" enum:"rod,chromedp,http" env:"SCOPECRAWL_RENDERER" help:"Page renderer (rod, chromedp, http)"`
	SettleDelay  time.Duration `default:"2s" env:"SCOPECRAWL_SETTLE_DELAY" help:"Wait after page load before reading the DOM"`
	Timeout      time.Duration `default:"30s" env:"SCOPECRAWL_TIMEOUT" help:"Per-page fetch timeout"`
	RecycleAfter int64         `default:"75" help:"Restart the rod browser after this many pages"`
	BrowserBin   string        `type:"path" env:"SCOPECRAWL_BROWSER_BIN" help:"Chrome binary for the rod and chromedp renderers"`

	Concurrency int     `short:"c" default:"1" env:"SCOPECRAWL_CONCURRENCY" help:"Pages processed at once"`
	Retries     int     `default:"0" env:"SCOPECRAWL_RETRIES" help:"Fetch retries with exponential backoff"`
	Rate        float64 `default:"0" env:"SCOPECRAWL_RATE" help:"Requests per second per domain (0 = unlimited)"`
	Burst       int     `default:"1" env:"SCOPECRAWL_BURST" help:"Requests allowed back to back before --rate applies"`
	MaxPages    int     `default:"0" env:"SCOPECRAWL_MAX_PAGES" help:"Stop after visiting this many pages (0 = unlimited)"`

	MetricsFile string `type:"path" env:"SCOPECRAWL_METRICS_FILE" help:"Write Prometheus metrics to this file"`
	NoHistory   bool   `help:"Do not record the run in the crawl history"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Phrase to look for (case-insensitive)"`
	Input string `short:"i" default:"company_data.json" env:"SCOPECRAWL_OUTPUT" type:"path" help:"JSON corpus to search"`
	Run   string `help:"Search the records of a stored run instead of the JSON corpus"`
	Lines bool   `short:"l" help:"Print the matching lines under each title"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	ID     string `arg:"" optional:"" help:"Show the visits of this run"`
	Seed   string `help:"Only list runs started from this seed"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs to list"`
	Delete bool   `help:"Delete the given run instead of showing it"`
}
