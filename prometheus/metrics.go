// Package prometheus records crawl metrics on a private Prometheus registry.
package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/crawl"
)

const namespace = "scopecrawl"

// Metrics holds the crawl collectors. Collectors are registered on Registry
// only, never on the global default registry.
type Metrics struct {
	Registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchBytes    prometheus.Counter
	pages         *prometheus.CounterVec
	queued        prometheus.Gauge
}

// NewMetrics creates and registers the crawl collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Page fetches by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a page, including the settle delay.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 10, 20, 30, 60},
		}),
		fetchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_bytes_total",
			Help:      "Bytes of HTML returned by successful fetches.",
		}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Visited pages by status.",
		}, []string{"status"}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_links",
			Help:      "Links waiting in the worklist.",
		}),
	}
	m.Registry.MustRegister(m.fetches, m.fetchDuration, m.fetchBytes, m.pages, m.queued)
	return m
}

// Progress updates page counters from crawl progress events.
// It has the signature of crawl.ProgressFunc.
func (m *Metrics) Progress(event crawl.ProgressEvent) {
	switch event.Type {
	case crawl.ProgressRecorded:
		m.pages.WithLabelValues(string(scopecrawl.VisitRecorded)).Inc()
	case crawl.ProgressFailed:
		m.pages.WithLabelValues(string(scopecrawl.VisitFailed)).Inc()
	}
	m.queued.Set(float64(event.Queued))
}

// WriteToTextfile writes all metrics in the Prometheus text format to path,
// suitable for the node exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// outcome maps a fetch error to a low-cardinality label value.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return scopecrawl.ErrorCode(err)
	}
}

// Ensure Fetcher implements scopecrawl.Fetcher.
var _ scopecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a Fetcher and records fetch counts, sizes and durations.
type Fetcher struct {
	next    scopecrawl.Fetcher
	metrics *Metrics
}

// NewFetcher creates a new Fetcher.
func NewFetcher(next scopecrawl.Fetcher, metrics *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.fetchDuration.Observe(time.Since(begin).Seconds())
		f.metrics.fetches.WithLabelValues(outcome(err)).Inc()
		if err == nil {
			f.metrics.fetchBytes.Add(float64(len(html)))
		}
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
