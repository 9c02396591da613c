// Package calc is a two-operand calculator that keeps its own history.
package calc

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// Operators lists the supported operators in menu order.
var Operators = []string{"+", "-", "*", "/", "%", "**"}

// Calculator evaluates expressions and records each successful one.
type Calculator struct {
	history []string
}

// New returns a calculator with an empty history.
func New() *Calculator {
	return &Calculator{}
}

// Calculate applies op to a and b. Division or modulo by zero fails with
// types.ErrDivisionByZero; an unknown operator fails with
// types.ErrInvalidOperator. Failures are not recorded.
func (c *Calculator) Calculate(a, b float64, op string) (float64, error) {
	r, err := Apply(a, b, op)
	if err != nil {
		return 0, err
	}
	c.history = append(c.history, fmt.Sprintf("%s %s %s = %s", format(a), op, format(b), format(r)))
	return r, nil
}

// History returns a copy of the recorded calculations, oldest first.
func (c *Calculator) History() []string {
	return slices.Clone(c.history)
}

// Clear empties the history.
func (c *Calculator) Clear() {
	c.history = nil
}

// Apply evaluates a op b without touching any history. Modulo takes the
// sign of the divisor. Operands and results must be finite.
func Apply(a, b float64, op string) (float64, error) {
	if !finite(a) || !finite(b) {
		return 0, &types.FieldError{Field: "operand", Reason: "must be a finite number"}
	}
	r, err := apply(a, b, op)
	if err != nil {
		return 0, err
	}
	if !finite(r) {
		return 0, &types.FieldError{Field: "result", Reason: fmt.Sprintf("%s %s %s is not a finite number", format(a), op, format(b))}
	}
	return r, nil
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func apply(a, b float64, op string) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("%w: %s / 0", types.ErrDivisionByZero, format(a))
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, fmt.Errorf("%w: %s %% 0", types.ErrDivisionByZero, format(a))
		}
		return floorMod(a, b), nil
	case "**":
		return math.Pow(a, b), nil
	}
	return 0, fmt.Errorf("%w: %q", types.ErrInvalidOperator, op)
}

// ValidOperator reports whether op is supported.
func ValidOperator(op string) bool {
	return slices.Contains(Operators, op)
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
