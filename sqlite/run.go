package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/scopecrawl/scopecrawl"
)

// Compile-time interface verification.
var _ scopecrawl.RunService = (*RunService)(nil)

// RunService implements scopecrawl.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores run, its visits and its records in a single transaction.
func (s *RunService) CreateRun(ctx context.Context, run *scopecrawl.Run, visits []scopecrawl.Visit, records []*scopecrawl.Record) error {
	if err := run.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	run.ID = uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seed, primary_domain, recorded, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seed, run.Primary, run.Recorded, run.Failed,
		formatTime(run.StartedAt), formatTime(run.FinishedAt)); err != nil {
		return err
	}

	if err := insertVisits(ctx, tx, run.ID, visits); err != nil {
		return err
	}
	if err := insertRecords(ctx, tx, run.ID, records); err != nil {
		return err
	}

	return tx.Commit()
}

func insertVisits(ctx context.Context, tx *sql.Tx, runID string, visits []scopecrawl.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO visits (run_id, position, url, parent, status, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range visits {
		if _, err := stmt.ExecContext(ctx, runID, i, v.URL, v.Parent, string(v.Status), v.Error); err != nil {
			return err
		}
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, runID string, records []*scopecrawl.Record) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, title, content, content_hash)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, i, r.Title, r.Content, ContentHash(r.Content)); err != nil {
			return err
		}
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*scopecrawl.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, primary_domain, recorded, failed, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scopecrawl.Errorf(scopecrawl.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter scopecrawl.RunFilter) ([]*scopecrawl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, seed, primary_domain, recorded, failed, started_at, finished_at FROM runs WHERE 1=1")

	if filter.Seed != nil {
		query.WriteString(" AND seed = ?")
		args = append(args, *filter.Seed)
	}
	if filter.Primary != nil {
		query.WriteString(" AND primary_domain = ?")
		args = append(args, *filter.Primary)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*scopecrawl.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindVisits returns the visits of a run in the order they were made.
func (s *RunService) FindVisits(ctx context.Context, runID string) ([]scopecrawl.Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, parent, status, error
		FROM visits
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []scopecrawl.Visit
	for rows.Next() {
		var v scopecrawl.Visit
		var status string
		if err := rows.Scan(&v.URL, &v.Parent, &status, &v.Error); err != nil {
			return nil, err
		}
		v.Status = scopecrawl.VisitStatus(status)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// FindRecords returns the records of a run in output order.
func (s *RunService) FindRecords(ctx context.Context, runID string) ([]*scopecrawl.Record, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title, content
		FROM records
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*scopecrawl.Record{}
	for rows.Next() {
		var r scopecrawl.Record
		if err := rows.Scan(&r.Title, &r.Content); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*scopecrawl.Run, error) {
	var run scopecrawl.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.Seed, &run.Primary, &run.Recorded, &run.Failed,
		&startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteRun removes a run. Its visits and records go with it through the
// foreign key cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return scopecrawl.Errorf(scopecrawl.ENOTFOUND, "run not found")
	}
	return nil
}
