// Package calculator implements the arithmetic operations exposed through
// the MCP tool surface and the REST endpoints.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcplab/calcserver/internal/app/domain/calc"
	"github.com/mcplab/calcserver/internal/app/metrics"
	"github.com/mcplab/calcserver/internal/app/storage"
	"github.com/mcplab/calcserver/pkg/logger"
)

// ErrDivisionByZero is returned when a division has a zero divisor.
var ErrDivisionByZero = errors.New("Division by zero is not allowed")

// Service executes arithmetic operations and records them in history.
type Service struct {
	history storage.HistoryStore
	log     *logger.Logger
}

// New constructs a calculator service.
func New(history storage.HistoryStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("calculator")
	}
	return &Service{history: history, log: log}
}

// Execute performs the named operation and persists the result. A history
// write failure is logged but does not fail the calculation.
func (s *Service) Execute(ctx context.Context, op calc.Operation, a, b float64) (calc.Calculation, error) {
	if !op.Valid() {
		return calc.Calculation{}, fmt.Errorf("unsupported operation %q", op)
	}

	var result float64
	switch op {
	case calc.OpPlus:
		result = a + b
	case calc.OpSub:
		result = a - b
	case calc.OpMul:
		result = a * b
	case calc.OpDiv:
		if b == 0 {
			metrics.RecordCalculation(string(op), "error")
			return calc.Calculation{}, ErrDivisionByZero
		}
		result = a / b
	}

	record := calc.Calculation{
		Operation: op,
		OperandA:  a,
		OperandB:  b,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}

	if s.history != nil {
		stored, err := s.history.AppendCalculation(ctx, record)
		if err != nil {
			s.log.WithError(err).
				WithField("operation", op).
				Error("failed to record calculation")
		} else {
			record = stored
		}
	}

	metrics.RecordCalculation(string(op), "ok")
	s.log.WithField("operation", op).
		Debugf("%s(%s, %s) = %s", op, calc.FormatNumber(a), calc.FormatNumber(b), calc.FormatNumber(result))
	return record, nil
}

// Add returns a+b.
func (s *Service) Add(ctx context.Context, a, b float64) (calc.Calculation, error) {
	return s.Execute(ctx, calc.OpPlus, a, b)
}

// Subtract returns a-b.
func (s *Service) Subtract(ctx context.Context, a, b float64) (calc.Calculation, error) {
	return s.Execute(ctx, calc.OpSub, a, b)
}

// Multiply returns a*b.
func (s *Service) Multiply(ctx context.Context, a, b float64) (calc.Calculation, error) {
	return s.Execute(ctx, calc.OpMul, a, b)
}

// Divide returns a/b, rejecting a zero divisor.
func (s *Service) Divide(ctx context.Context, a, b float64) (calc.Calculation, error) {
	return s.Execute(ctx, calc.OpDiv, a, b)
}
