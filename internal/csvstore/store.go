// Package csvstore keeps the catalog and the transaction history in two CSV
// files in a data directory, the layout used by the till before it had a
// database.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

const (
	CatalogFile = "database.csv"
	HistoryFile = "transactions.csv"
)

var (
	catalogHeader = []string{"Product", "Price", "Stock"}
	historyHeader = []string{"ID", "Customer", "Items", "Total", "Method", "Status", "CreatedAt"}
)

var ErrMalformed = errors.New("malformed csv")

type Store struct {
	dir string
}

// New opens a store in dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readRecords returns the data rows of file as maps keyed by header. A
// missing file reads as empty.
func (s *Store) readRecords(name string, required []string) ([]map[string]string, error) {
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}
	for _, col := range required {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("%w: %s has no %q column", ErrMalformed, name, col)
		}
	}

	var records []map[string]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
		}
		rec := make(map[string]string, len(header))
		for i, col := range header {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// writeAtomic replaces file with header and rows through a temp file and a
// rename, so a crash never leaves a half-written file behind.
func (s *Store) writeAtomic(name string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
