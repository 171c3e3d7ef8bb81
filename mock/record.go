package mock

import (
	"context"

	"github.com/scopecrawl/scopecrawl"
)

var _ scopecrawl.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of scopecrawl.RecordStore.
type RecordStore struct {
	SaveRecordsFn func(ctx context.Context, records []*scopecrawl.Record) error
	LoadRecordsFn func(ctx context.Context) ([]*scopecrawl.Record, error)
}

func (s *RecordStore) SaveRecords(ctx context.Context, records []*scopecrawl.Record) error {
	return s.SaveRecordsFn(ctx, records)
}

func (s *RecordStore) LoadRecords(ctx context.Context) ([]*scopecrawl.Record, error) {
	return s.LoadRecordsFn(ctx)
}

var _ scopecrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of scopecrawl.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *scopecrawl.Run, visits []scopecrawl.Visit, records []*scopecrawl.Record) error
	FindRunByIDFn func(ctx context.Context, id string) (*scopecrawl.Run, error)
	FindRunsFn    func(ctx context.Context, filter scopecrawl.RunFilter) ([]*scopecrawl.Run, error)
	FindVisitsFn  func(ctx context.Context, runID string) ([]scopecrawl.Visit, error)
	FindRecordsFn func(ctx context.Context, runID string) ([]*scopecrawl.Record, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *scopecrawl.Run, visits []scopecrawl.Visit, records []*scopecrawl.Record) error {
	return s.CreateRunFn(ctx, run, visits, records)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*scopecrawl.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter scopecrawl.RunFilter) ([]*scopecrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindVisits(ctx context.Context, runID string) ([]scopecrawl.Visit, error) {
	return s.FindVisitsFn(ctx, runID)
}

func (s *RunService) FindRecords(ctx context.Context, runID string) ([]*scopecrawl.Record, error) {
	return s.FindRecordsFn(ctx, runID)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
