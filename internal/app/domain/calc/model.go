package calc

import (
	"fmt"
	"strconv"
	"time"
)

// Operation identifies an arithmetic operation.
type Operation string

const (
	OpPlus Operation = "plus"
	OpSub  Operation = "sub"
	OpMul  Operation = "mul"
	OpDiv  Operation = "div"
)

// Operations lists the supported arithmetic operations in display order.
func Operations() []Operation {
	return []Operation{OpPlus, OpSub, OpMul, OpDiv}
}

// Valid reports whether op names a supported arithmetic operation.
func (op Operation) Valid() bool {
	switch op {
	case OpPlus, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Verb returns the human-readable name used in MCP text responses.
func (op Operation) Verb() string {
	switch op {
	case OpPlus:
		return "Addition"
	case OpSub:
		return "Subtraction"
	case OpMul:
		return "Multiplication"
	case OpDiv:
		return "Division"
	}
	return string(op)
}

// Symbol returns the operator symbol used in MCP text responses.
func (op Operation) Symbol() string {
	switch op {
	case OpPlus:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// Calculation is a single recorded arithmetic result.
type Calculation struct {
	ID        int64     `json:"id"`
	Operation Operation `json:"operation"`
	OperandA  float64   `json:"operand_a"`
	OperandB  float64   `json:"operand_b"`
	Result    float64   `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary renders the calculation as a single history line.
func (c Calculation) Summary() string {
	return fmt.Sprintf("%d. %s: %s and %s = %s (%s)",
		c.ID,
		c.Operation,
		FormatNumber(c.OperandA),
		FormatNumber(c.OperandB),
		FormatNumber(c.Result),
		c.Timestamp.Format(time.RFC3339),
	)
}

// FormatNumber renders a float without a trailing fractional part when the
// value is integral, so 8.0 prints as "8" and 2.5 as "2.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
