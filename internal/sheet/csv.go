package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// csvStore keeps the catalog in a local CSV file. It exists for development
// and tests; writes rewrite the whole file atomically (tmp + rename).
type csvStore struct {
	mu   sync.Mutex
	path string
	log  logx.Logger
}

func openCSV(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sheet: csv path is required")
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("sheet: csv file: %w", err)
	}
	return &csvStore{path: cfg.Path, log: log}, nil
}

func (s *csvStore) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readLocked()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func (s *csvStore) WriteCell(ctx context.Context, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("sheet: invalid cell position (%d,%d)", row, col)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return err
	}
	if row > len(records) {
		return fmt.Errorf("sheet: row %d out of range (%d rows)", row, len(records))
	}
	rec := records[row-1]
	for len(rec) < col {
		rec = append(rec, "")
	}
	rec[col-1] = value
	records[row-1] = rec

	return s.writeLocked(records)
}

func (s *csvStore) Close() error { return nil }

func (s *csvStore) readLocked() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Human-edited rows often have trailing blanks or missing cells.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheet: parse csv: %w", err)
	}
	return records, nil
}

func (s *csvStore) writeLocked(records [][]string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return fmt.Errorf("sheet: temp csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sheet: write csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
