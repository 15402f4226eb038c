// Package history manages access to the calculation history store.
package history

import (
	"context"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
	"github.com/mcplab/calcserver/internal/app/metrics"
	"github.com/mcplab/calcserver/internal/app/storage"
	"github.com/mcplab/calcserver/pkg/logger"
)

// DefaultLimit is used when a caller does not specify how many records to
// return.
const DefaultLimit = 10

// MaxLimit caps a single listing request.
const MaxLimit = 1000

// Service exposes read and maintenance operations over the history store.
type Service struct {
	store storage.HistoryStore
	log   *logger.Logger
}

// New constructs a history service.
func New(store storage.HistoryStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("history")
	}
	return &Service{store: store, log: log}
}

// List returns the newest records, newest first. A non-positive limit uses
// DefaultLimit; limits above MaxLimit are clamped.
func (s *Service) List(ctx context.Context, limit int) ([]calc.Calculation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	records, err := s.store.ListCalculations(ctx, limit)
	if err != nil {
		return nil, err
	}

	if count, err := s.store.CountCalculations(ctx); err == nil {
		metrics.SetHistorySize(count)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountCalculations(ctx)
}

// Trim keeps only the newest keep records.
func (s *Service) Trim(ctx context.Context, keep int) (int, error) {
	removed, err := s.store.TrimCalculations(ctx, keep)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.WithField("removed", removed).
			WithField("keep", keep).
			Info("history trimmed")
		metrics.RecordRetentionRemovals(removed)
	}
	return removed, nil
}
