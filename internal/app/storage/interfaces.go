package storage

import (
	"context"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
)

// HistoryStore persists calculation records.
type HistoryStore interface {
	// AppendCalculation assigns the next id and stores the record.
	AppendCalculation(ctx context.Context, c calc.Calculation) (calc.Calculation, error)
	// ListCalculations returns up to limit records, newest first.
	ListCalculations(ctx context.Context, limit int) ([]calc.Calculation, error)
	// CountCalculations returns the number of stored records.
	CountCalculations(ctx context.Context) (int, error)
	// TrimCalculations keeps only the newest keep records and reports how
	// many were removed.
	TrimCalculations(ctx context.Context, keep int) (int, error)
}
