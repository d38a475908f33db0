// Package store persists extracted contact records in an append-only CSV
// table with a fixed seven-column header.
//
// The table only grows: rows are never updated or deleted, and a row exists
// only for a fully validated extraction. Appends are serialized behind a
// mutex and written as single O_APPEND lines, so concurrent requests cannot
// lose each other's rows.
package store

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"cardscan/internal/logger"
	"cardscan/pkg/models"
)

// ContactStore is a CSV-file-backed, append-only contact table.
type ContactStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

// NewContactStore opens (or creates) the contact table at path. The
// containing directory and the header-only file are created if absent; an
// existing file must carry the fixed contact header.
func NewContactStore(path string) (*ContactStore, error) {
	const op = "NewContactStore"

	s := &ContactStore{
		path: path,
		log:  logger.WithComponent("store"),
	}

	if err := s.ensureTable(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing CSV file.
func (s *ContactStore) Path() string {
	return s.path
}

// ensureTable creates the directory and header-only file when missing, and
// verifies the header when the file already exists.
func (s *ContactStore) ensureTable() error {
	const op = "ensureTable"

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewStoreError(op, ErrTableInit, err.Error())
		}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return NewStoreError(op, ErrTableInit, err.Error())
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	switch {
	case err == io.EOF:
		// Freshly created or empty file: write the header.
		w := csv.NewWriter(f)
		if err := w.Write(models.CSVHeader()); err != nil {
			return NewStoreError(op, ErrTableInit, err.Error())
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return NewStoreError(op, ErrTableInit, err.Error())
		}
		s.log.Info().Str("path", s.path).Msg("Created contact table")
		return nil
	case err != nil:
		return NewStoreError(op, ErrTableInit, err.Error())
	}

	if !equalHeader(header, models.CSVHeader()) {
		return NewStoreError(op, ErrBadHeader, "path: "+s.path)
	}
	return nil
}

// Append writes one contact row to the end of the table.
func (s *ContactStore) Append(record models.ContactRecord) error {
	const op = "Append"

	s.mu.Lock()
	defer s.mu.Unlock()

	// No O_CREATE: if the table file vanished since construction, appending
	// would silently rebuild it without a header. Fail instead.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return NewStoreError(op, ErrAppendFailed, err.Error())
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record.CSVRow()); err != nil {
		return NewStoreError(op, ErrAppendFailed, err.Error())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return NewStoreError(op, ErrAppendFailed, err.Error())
	}

	s.log.Debug().Str("name", record.Name).Str("path", s.path).Msg("Appended contact row")
	return nil
}

// ReadAll returns every stored record in append order, excluding the header.
func (s *ContactStore) ReadAll() ([]models.ContactRecord, error) {
	const op = "ReadAll"

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, NewStoreError(op, ErrReadFailed, err.Error())
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, NewStoreError(op, ErrReadFailed, err.Error())
	}
	if len(rows) == 0 {
		return nil, NewStoreError(op, ErrBadHeader, "table is empty")
	}

	records := make([]models.ContactRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(models.ContactFieldNames) {
			return nil, NewStoreError(op, ErrReadFailed, "row with unexpected column count")
		}
		records = append(records, models.ContactRecord{
			Name:    row[0],
			Title:   row[1],
			Company: row[2],
			Email:   row[3],
			Phone:   row[4],
			Website: row[5],
			Address: row[6],
		})
	}
	return records, nil
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
