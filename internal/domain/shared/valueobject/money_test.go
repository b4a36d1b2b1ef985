package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), BRL)
	require.NoError(t, err)
	assert.Equal(t, BRL, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))

	_, err = NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyBRLFromFloat(10.50)
	b := NewMoneyBRLFromFloat(4.25)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "14.75", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "6.25", diff.StringFixed(2))

	usd := Zero(USD)
	_, err = a.Add(usd)
	assert.Error(t, err)
	_, err = a.Subtract(usd)
	assert.Error(t, err)
}

func TestMoney_MultiplyDivide(t *testing.T) {
	m := NewMoneyBRLFromFloat(3.33)
	assert.Equal(t, "9.99", m.MultiplyByInt(3).StringFixed(2))

	half, err := m.Divide(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "1.67", half.Round(2).StringFixed(2))

	_, err = m.Divide(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_Split(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		n     int
		want  []string
	}{
		{"exact division", 90.00, 3, []string{"30.00", "30.00", "30.00"}},
		{"remainder to last", 1000.00, 3, []string{"333.33", "333.33", "333.34"}},
		{"single part", 55.55, 1, []string{"55.55"}},
		{"two parts odd cent", 0.01, 2, []string{"0.01", "0.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneyBRLFromFloat(tt.total)
			parts, err := m.Split(tt.n)
			require.NoError(t, err)
			require.Len(t, parts, tt.n)

			sum := ZeroBRL()
			for i, p := range parts {
				assert.Equal(t, tt.want[i], p.StringFixed(2))
				sum = sum.MustAdd(p)
			}
			assert.True(t, sum.Equals(m), "parts must sum to the original amount")
		})
	}

	_, err := ZeroBRL().Split(0)
	assert.Error(t, err)
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyBRLFromFloat(10)
	b := NewMoneyBRLFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := a.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	_, err = a.LessThan(Zero(USD))
	assert.Error(t, err)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyBRLFromFloat(123.45)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equals(back))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroBRL().IsZero())
	assert.True(t, NewMoneyBRLFromFloat(1).IsPositive())
	assert.True(t, NewMoneyBRLFromFloat(-1).IsNegative())
	assert.True(t, NewMoneyBRLFromFloat(1).Negate().IsNegative())
}
