package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/pkg/types"
)

func TestApply(t *testing.T) {
	tests := []struct {
		a, b float64
		op   string
		want float64
	}{
		{5, 3, "+", 8},
		{5, 3, "-", 2},
		{5, 3, "*", 15},
		{6, 3, "/", 2},
		{7, 2, "/", 3.5},
		{6, 3, "%", 0},
		{7, 3, "%", 1},
		{-7, 3, "%", 2},
		{7, -3, "%", -2},
		{-7, -3, "%", -1},
		{2, 3, "**", 8},
		{4, 0.5, "**", 2},
	}
	for _, tt := range tests {
		t.Run(format(tt.a)+tt.op+format(tt.b), func(t *testing.T) {
			got, err := Apply(tt.a, tt.b, tt.op)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply(5, 0, "/")
	assert.ErrorIs(t, err, types.ErrDivisionByZero)
	_, err = Apply(5, 0, "%")
	assert.ErrorIs(t, err, types.ErrDivisionByZero)
	_, err = Apply(5, 1, "^")
	assert.ErrorIs(t, err, types.ErrInvalidOperator)
}

func TestApplyRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		op   string
	}{
		{"zero to negative power", 0, -1, "**"},
		{"root of negative", -8, 0.5, "**"},
		{"overflowing power", 10, 400, "**"},
		{"overflowing product", math.MaxFloat64, 2, "*"},
		{"infinite operand", math.Inf(1), 1, "+"},
		{"nan operand", 1, math.NaN(), "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.a, tt.b, tt.op)
			assert.ErrorIs(t, err, types.ErrInvalidField)
		})
	}

	c := New()
	_, err := c.Calculate(0, -1, "**")
	require.Error(t, err)
	assert.Empty(t, c.History())
}

func TestHistory(t *testing.T) {
	c := New()
	_, err := c.Calculate(5, 3, "+")
	require.NoError(t, err)
	_, err = c.Calculate(1, 0, "/")
	require.Error(t, err)
	_, err = c.Calculate(2.5, 2, "*")
	require.NoError(t, err)

	assert.Equal(t, []string{"5 + 3 = 8", "2.5 * 2 = 5"}, c.History())

	h := c.History()
	h[0] = "tampered"
	assert.Equal(t, "5 + 3 = 8", c.History()[0])

	c.Clear()
	assert.Empty(t, c.History())
}

func TestCalculatorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	_, err := a.Calculate(1, 1, "+")
	require.NoError(t, err)
	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())
}

func TestValidOperator(t *testing.T) {
	for _, op := range Operators {
		assert.True(t, ValidOperator(op), op)
	}
	assert.False(t, ValidOperator("//"))
}
