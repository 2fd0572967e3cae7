package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_Validation(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  bool
	}{
		{"zero", "0", "USD", false},
		{"fractional", "19.99", "usd", false},
		{"negative", "-0.01", "USD", true},
		{"blank currency", "1", "", true},
		{"not iso", "1", "DOLLARS", true},
		{"unknown code", "1", "ZZZ", true},
		{"malformed amount", "1.2.3", "USD", true},
		{"trailing zeros beyond scale", "1.2300", "USD", false},
		{"sub-cent amount", "1.23456", "USD", true},
		{"half cent", "0.005", "USD", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.amount, tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsDomainError(err, ErrCodeInvalidMoney))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "USD", m.Currency())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney("10.50", "USD")
	b := MustMoney("2.25", "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "12.75 USD", sum.String())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "8.25 USD", diff.String())

	_, err = b.Subtract(a)
	assert.True(t, IsDomainError(err, ErrCodeInvalidMoney), "negative result must fail")

	product, err := b.Multiply(3)
	require.NoError(t, err)
	assert.Equal(t, "6.75 USD", product.String())

	_, err = b.Multiply(-1)
	assert.Error(t, err)

	// operands are unchanged
	assert.Equal(t, "10.50 USD", a.String())
}

func TestMoney_CurrencyMismatchAlwaysFails(t *testing.T) {
	usd := MustMoney("1", "USD")
	eur := MustMoney("1", "EUR")

	_, err := usd.Add(eur)
	assert.True(t, IsDomainError(err, ErrCodeInvalidMoney))
	_, err = usd.Subtract(eur)
	assert.True(t, IsDomainError(err, ErrCodeInvalidMoney))
	_, err = usd.Compare(eur)
	assert.True(t, IsDomainError(err, ErrCodeInvalidMoney))
	_, err = usd.LessThan(eur)
	assert.Error(t, err)
	_, err = usd.Add(Money{})
	assert.Error(t, err)
}

func TestMoney_Comparisons(t *testing.T) {
	small := MustMoney("5.00", "USD")
	big := MustMoney("10", "USD")

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	gte, err := big.GreaterThanOrEqual(MustMoney("10.00", "USD"))
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, big.Equal(MustMoney("10.00", "USD")))
	assert.False(t, big.Equal(MustMoney("10.00", "EUR")))
}

func TestMoney_ScaleFollowsCurrency(t *testing.T) {
	m := MustMoney("3.35", "USD")
	assert.Equal(t, int32(2), m.Scale())
	assert.Equal(t, "3.35 USD", m.String())

	yen := MustMoney("100", "JPY")
	assert.Equal(t, int32(0), yen.Scale())
	assert.Equal(t, "100 JPY", yen.String())

	_, err := ParseMoney("100.5", "JPY")
	assert.True(t, IsDomainError(err, ErrCodeInvalidMoney))

	_, err = NewMoney(decimal.RequireFromString("3.335"), "USD")
	assert.True(t, IsDomainError(err, ErrCodeInvalidMoney))

	avg, err := MustMoney("10.00", "USD").DivideRound(3)
	require.NoError(t, err)
	assert.Equal(t, "3.33 USD", avg.String())
}

func TestMoney_JSON(t *testing.T) {
	m := MustMoney("60.00", "USD")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"60","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(m))

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"-1","currency":"USD"}`), &decoded))
}
