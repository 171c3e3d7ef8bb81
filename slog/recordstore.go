package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/scopecrawl/scopecrawl"
)

// Ensure LoggingRecordStore implements scopecrawl.RecordStore.
var _ scopecrawl.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with logging.
type LoggingRecordStore struct {
	next   scopecrawl.RecordStore
	logger *slog.Logger
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next scopecrawl.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

// SaveRecords delegates to the wrapped store and logs the record count.
func (s *LoggingRecordStore) SaveRecords(ctx context.Context, records []*scopecrawl.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveRecords(ctx, records)
}

// LoadRecords delegates to the wrapped store and logs the record count.
func (s *LoggingRecordStore) LoadRecords(ctx context.Context) (records []*scopecrawl.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("load records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadRecords(ctx)
}
