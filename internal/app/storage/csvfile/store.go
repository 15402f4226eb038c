// Package csvfile provides a HistoryStore backed by a single CSV file.
// The file layout matches the published data contract: a header row
// followed by one row per calculation with a monotonically increasing id.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
)

var header = []string{"id", "operation", "operand_a", "operand_b", "result", "timestamp"}

// Store persists calculations to a CSV file. All operations are serialized
// through a single mutex; the store is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	nextID int64
	count  int
}

// New opens or creates the CSV file at path. The parent directory is
// created if needed and the next id is derived from the existing tail, so
// ids keep increasing across restarts.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	s := &Store{path: path, nextID: 1}

	if err := s.ensureFile(); err != nil {
		return nil, err
	}

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}
	s.count = len(records)
	if len(records) > 0 {
		s.nextID = records[len(records)-1].ID + 1
	}
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// AppendCalculation writes the record as a new CSV row.
func (s *Store) AppendCalculation(_ context.Context, c calc.Calculation) (calc.Calculation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureFile(); err != nil {
		return calc.Calculation{}, err
	}

	c.ID = s.nextID
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(c)); err != nil {
		return calc.Calculation{}, fmt.Errorf("write history row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return calc.Calculation{}, fmt.Errorf("flush history row: %w", err)
	}

	s.nextID++
	s.count++
	return c, nil
}

// ListCalculations returns the newest limit records, newest first.
func (s *Store) ListCalculations(_ context.Context, limit int) ([]calc.Calculation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	out := make([]calc.Calculation, 0, limit)
	for i := len(records) - 1; i >= len(records)-limit; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

// CountCalculations returns the number of stored records.
func (s *Store) CountCalculations(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, nil
}

// TrimCalculations rewrites the file keeping only the newest keep rows.
// The rewrite goes through a temp file and rename so a crash cannot leave
// a half-written history.
func (s *Store) TrimCalculations(_ context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if keep >= len(records) {
		return 0, nil
	}
	removed := len(records) - keep
	kept := records[removed:]

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "history-*.csv")
	if err != nil {
		return 0, fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write history header: %w", err)
	}
	for _, c := range kept {
		if err := w.Write(encodeRow(c)); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return 0, fmt.Errorf("write history row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("flush history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("replace history file: %w", err)
	}

	s.count = len(kept)
	return removed, nil
}

func (s *Store) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat history file: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *Store) readAll() ([]calc.Calculation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]calc.Calculation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		c, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, nil
}

func encodeRow(c calc.Calculation) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		string(c.Operation),
		calc.FormatNumber(c.OperandA),
		calc.FormatNumber(c.OperandB),
		calc.FormatNumber(c.Result),
		c.Timestamp.Format(time.RFC3339Nano),
	}
}

func decodeRow(row []string) (calc.Calculation, error) {
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("parse history id %q: %w", row[0], err)
	}
	a, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("parse operand_a %q: %w", row[2], err)
	}
	b, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("parse operand_b %q: %w", row[3], err)
	}
	result, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("parse result %q: %w", row[4], err)
	}
	ts, err := time.Parse(time.RFC3339Nano, row[5])
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("parse timestamp %q: %w", row[5], err)
	}
	return calc.Calculation{
		ID:        id,
		Operation: calc.Operation(row[1]),
		OperandA:  a,
		OperandB:  b,
		Result:    result,
		Timestamp: ts,
	}, nil
}
