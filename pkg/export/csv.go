// Package export writes fetched tables to disk: one CSV per dataset, grouped
// in per-theme folders, then packed in a zip archive.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// CSVWriter writes records to CSV under a fixed column set.
type CSVWriter struct {
	file    *os.File
	writer  *csv.Writer
	columns []string
	mu      sync.Mutex
}

// NewCSVWriter creates filename, including missing parent directories, and
// writes the header row.
func NewCSVWriter(filename string, columns []string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	return &CSVWriter{
		file:    f,
		writer:  writer,
		columns: columns,
	}, nil
}

// Write appends one row per record. Fields missing from a record are left
// empty; fields outside the column set are dropped.
func (cw *CSVWriter) Write(records []table.Record) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	row := make([]string, len(cw.columns))
	for _, rec := range records {
		for i, col := range cw.columns {
			row[i] = rec.String(col)
		}
		if err := cw.writer.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// WriteTable writes t to filename with the union of its fields, in
// first-seen order, as header.
func WriteTable(filename string, t *table.Table) error {
	cw, err := NewCSVWriter(filename, t.Columns())
	if err != nil {
		return err
	}
	if t != nil {
		if err := cw.Write(t.Records); err != nil {
			cw.Close()
			return err
		}
	}
	return cw.Close()
}

// Encode writes t as CSV to w, header first.
func Encode(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	writer := csv.NewWriter(w)
	if err := writer.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	var records []table.Record
	if t != nil {
		records = t.Records
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, col := range cols {
			row[i] = rec.String(col)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
