package scopecrawl

import "context"

// Record is the unit of crawl output: one per successfully processed page.
type Record struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// VisitStatus is the outcome of visiting a URL.
type VisitStatus string

// Visit outcomes.
const (
	VisitRecorded VisitStatus = "recorded"
	VisitFailed   VisitStatus = "failed"

	// VisitSkipped marks a claimed URL that was never processed because the
	// crawl stopped first. Error holds the reason.
	VisitSkipped VisitStatus = "skipped"
)

// Visit describes what happened to a claimed URL.
type Visit struct {
	URL    string      `json:"url"`
	Parent string      `json:"parent,omitempty"`
	Status VisitStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// RecordStore persists crawl records.
type RecordStore interface {
	// SaveRecords replaces the stored records with records.
	SaveRecords(ctx context.Context, records []*Record) error

	// LoadRecords returns the stored records in the order they were saved.
	// Returns ENOTFOUND if nothing has been saved.
	LoadRecords(ctx context.Context) ([]*Record, error)
}
