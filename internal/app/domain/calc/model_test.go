package calc

import (
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{8, "8"},
		{8.0, "8"},
		{2.5, "2.5"},
		{-3, "-3"},
		{0, "0"},
		{0.1, "0.1"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Fatalf("FormatNumber(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestOperationHelpers(t *testing.T) {
	if !OpPlus.Valid() || !OpDiv.Valid() {
		t.Fatalf("expected known operations to be valid")
	}
	if Operation("mod").Valid() {
		t.Fatalf("expected unknown operation to be invalid")
	}
	if OpPlus.Verb() != "Addition" || OpDiv.Symbol() != "/" {
		t.Fatalf("unexpected display strings: %s %s", OpPlus.Verb(), OpDiv.Symbol())
	}
	if len(Operations()) != 4 {
		t.Fatalf("expected 4 operations, got %d", len(Operations()))
	}
}

func TestSummary(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	c := Calculation{ID: 3, Operation: OpPlus, OperandA: 1, OperandB: 2, Result: 3, Timestamp: ts}

	want := "3. plus: 1 and 2 = 3 (2025-06-01T12:30:00Z)"
	if got := c.Summary(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
