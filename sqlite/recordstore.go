package sqlite

import (
	"context"

	"github.com/scopecrawl/scopecrawl"
)

// Compile-time interface verification.
var _ scopecrawl.RecordStore = (*RecordStore)(nil)

// RecordStore exposes the records of one stored run as a scopecrawl.RecordStore.
type RecordStore struct {
	db    *DB
	runs  *RunService
	runID string
}

// NewRecordStore creates a RecordStore for the run with the given ID.
func NewRecordStore(db *DB, runID string) *RecordStore {
	return &RecordStore{db: db, runs: NewRunService(db), runID: runID}
}

// SaveRecords replaces the run's records. Returns ENOTFOUND if the run does not exist.
func (s *RecordStore) SaveRecords(ctx context.Context, records []*scopecrawl.Record) error {
	if _, err := s.runs.FindRunByID(ctx, s.runID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE run_id = ?", s.runID); err != nil {
		return err
	}
	if err := insertRecords(ctx, tx, s.runID, records); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE runs SET recorded = ? WHERE id = ?", len(records), s.runID); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadRecords returns the run's records in output order.
func (s *RecordStore) LoadRecords(ctx context.Context) ([]*scopecrawl.Record, error) {
	return s.runs.FindRecords(ctx, s.runID)
}
