// Package fs provides file-based storage for crawl records.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/scopecrawl/scopecrawl"
)

// Ensure RecordStore implements scopecrawl.RecordStore at compile time.
var _ scopecrawl.RecordStore = (*RecordStore)(nil)

// RecordStore keeps records as a pretty-printed JSON array in a single file.
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers never observe a half-written file.
type RecordStore struct {
	path string
}

// NewRecordStore creates a RecordStore backed by the file at path.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Path returns the file the store writes to.
func (s *RecordStore) Path() string {
	return s.path
}

// SaveRecords replaces the file contents with records in order.
// Non-ASCII text and HTML-significant characters are written unescaped.
func (s *RecordStore) SaveRecords(ctx context.Context, records []*scopecrawl.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []*scopecrawl.Record{}
	}

	data, err := MarshalRecords(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// LoadRecords reads the records back. Returns ENOTFOUND if the file does not exist.
func (s *RecordStore) LoadRecords(ctx context.Context) ([]*scopecrawl.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, scopecrawl.Errorf(scopecrawl.ENOTFOUND, "no records at %s", s.path)
	} else if err != nil {
		return nil, err
	}

	var records []*scopecrawl.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, scopecrawl.Errorf(scopecrawl.EPARSE, "decoding %s: %v", s.path, err)
	}
	return records, nil
}

// MarshalRecords encodes records as a JSON array indented by two spaces,
// without escaping HTML characters or non-ASCII text.
func MarshalRecords(records []*scopecrawl.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
