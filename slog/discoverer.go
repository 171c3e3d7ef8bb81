package slog

import (
	"log/slog"
	"time"

	"github.com/scopecrawl/scopecrawl"
)

// Ensure LoggingDiscoverer implements scopecrawl.LinkDiscoverer.
var _ scopecrawl.LinkDiscoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a LinkDiscoverer with debug logging.
type LoggingDiscoverer struct {
	next   scopecrawl.LinkDiscoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next scopecrawl.LinkDiscoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// DiscoverLinks delegates to the wrapped discoverer and logs the link count.
func (d *LoggingDiscoverer) DiscoverLinks(html string, baseURL string) (links []string, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("discover links",
			"url", baseURL,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DiscoverLinks(html, baseURL)
}
