// Package memory provides a thread-safe in-memory HistoryStore. It is
// intended for tests and prototyping and deliberately keeps the
// implementation simple.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
)

// Store keeps calculation records in insertion order.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	records []calc.Calculation
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{nextID: 1}
}

// AppendCalculation stores the record with the next sequential id.
func (s *Store) AppendCalculation(_ context.Context, c calc.Calculation) (calc.Calculation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID
	s.nextID++
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	s.records = append(s.records, c)
	return c, nil
}

// ListCalculations returns the newest limit records, newest first.
func (s *Store) ListCalculations(_ context.Context, limit int) ([]calc.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]calc.Calculation, 0, limit)
	for i := len(s.records) - 1; i >= len(s.records)-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// CountCalculations returns the number of stored records.
func (s *Store) CountCalculations(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// TrimCalculations drops everything but the newest keep records.
func (s *Store) TrimCalculations(_ context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if keep >= len(s.records) {
		return 0, nil
	}
	removed := len(s.records) - keep
	kept := make([]calc.Calculation, keep)
	copy(kept, s.records[removed:])
	s.records = kept
	return removed, nil
}
