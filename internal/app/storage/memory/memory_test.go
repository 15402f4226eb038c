package memory

import (
	"context"
	"testing"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
)

func TestAppendAndList(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		rec, err := store.AppendCalculation(ctx, calc.Calculation{
			Operation: calc.OpPlus,
			OperandA:  float64(i),
			OperandB:  1,
			Result:    float64(i) + 1,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if rec.ID != int64(i) {
			t.Fatalf("expected id %d, got %d", i, rec.ID)
		}
	}

	records, err := store.ListCalculations(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != 4 || records[1].ID != 3 {
		t.Fatalf("expected newest first, got ids %d and %d", records[0].ID, records[1].ID)
	}

	all, err := store.ListCalculations(ctx, 100)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}
}

func TestTrim(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := store.AppendCalculation(ctx, calc.Calculation{Operation: calc.OpMul, OperandA: 2, OperandB: 2, Result: 4}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	removed, err := store.TrimCalculations(ctx, 4)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	count, err := store.CountCalculations(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 records, got %d", count)
	}

	// Ids continue from where they left off.
	rec, err := store.AppendCalculation(ctx, calc.Calculation{Operation: calc.OpMul, OperandA: 3, OperandB: 3, Result: 9})
	if err != nil {
		t.Fatalf("append after trim: %v", err)
	}
	if rec.ID != 7 {
		t.Fatalf("expected id 7, got %d", rec.ID)
	}
}
