package scopecrawl

import (
	"context"
	"time"
)

// Run summarizes one crawl for the crawl history.
type Run struct {
	ID         string    `json:"id"`
	Seed       string    `json:"seed"`
	Primary    string    `json:"primary"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Recorded   int       `json:"recorded"`
	Failed     int       `json:"failed"`
}

// Validate returns an error if the run is missing required fields.
func (r *Run) Validate() error {
	if r.Seed == "" {
		return Errorf(EINVALID, "run seed required")
	}
	if r.Primary == "" {
		return Errorf(EINVALID, "run primary domain required")
	}
	if !r.FinishedAt.IsZero() && r.FinishedAt.Before(r.StartedAt) {
		return Errorf(EINVALID, "run finished before it started")
	}
	return nil
}

// RunFilter narrows FindRuns.
type RunFilter struct {
	Seed    *string
	Primary *string

	Offset int
	Limit  int
}

// RunService records crawl runs together with their visits and records.
type RunService interface {
	// CreateRun assigns the run an ID and stores it with its visits and
	// records in one transaction.
	CreateRun(ctx context.Context, run *Run, visits []Visit, records []*Record) error

	// FindRunByID returns ENOTFOUND if no run has the given ID.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns returns runs matching filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindVisits returns the visits of a run in the order they were made.
	FindVisits(ctx context.Context, runID string) ([]Visit, error)

	// FindRecords returns the records of a run in output order.
	// Returns ENOTFOUND if the run does not exist.
	FindRecords(ctx context.Context, runID string) ([]*Record, error)

	// DeleteRun removes a run with its visits and records.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}
