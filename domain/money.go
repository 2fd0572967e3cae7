package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the reference currency for pricing rules.
const DefaultCurrency = "USD"

// Money is an immutable non-negative amount in a single ISO-4217 currency.
// The zero value has no currency and is treated as "no price".
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates the amount and currency code. The amount may not carry
// more decimal places than the currency's minor unit.
func NewMoney(amount decimal.Decimal, code string) (Money, error) {
	unit, err := parseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, Errorf(ErrCodeInvalidMoney, "amount %s must not be negative", amount.String())
	}
	scale := currencyScale(unit)
	if !amount.Equal(amount.Truncate(scale)) {
		return Money{}, Errorf(ErrCodeInvalidMoney, "amount %s has more than %d decimal places for %s", amount.String(), scale, unit)
	}
	return Money{amount: amount, currency: unit.String()}, nil
}

// ParseMoney parses a decimal string such as "19.99".
func ParseMoney(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, WrapError(ErrCodeInvalidMoney, "malformed amount", err)
	}
	return NewMoney(d, code)
}

// MustMoney is ParseMoney for literals known to be valid.
func MustMoney(amount, code string) Money {
	m, err := ParseMoney(amount, code)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(code string) (Money, error) {
	return NewMoney(decimal.Zero, code)
}

func parseCurrency(code string) (currency.Unit, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return currency.Unit{}, Errorf(ErrCodeInvalidMoney, "currency %q is not an ISO-4217 code", code)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, WrapError(ErrCodeInvalidMoney, "unknown currency "+code, err)
	}
	return unit, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// IsDefined reports whether the value was constructed (has a currency).
func (m Money) IsDefined() bool { return m.currency != "" }

func (m Money) IsZero() bool { return m.amount.IsZero() }

// Scale is the number of minor-unit digits of the currency (2 for USD, 0 for JPY).
func (m Money) Scale() int32 {
	unit, err := currency.ParseISO(m.currency)
	if err != nil {
		return 2
	}
	return currencyScale(unit)
}

func currencyScale(unit currency.Unit) int32 {
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

func (m Money) sameCurrency(other Money, op string) error {
	if !m.IsDefined() || !other.IsDefined() {
		return Errorf(ErrCodeInvalidMoney, "cannot %s undefined money", op)
	}
	if m.currency != other.currency {
		return Errorf(ErrCodeInvalidMoney, "cannot %s %s and %s: currency mismatch", op, m.currency, other.currency)
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract fails when the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

func (m Money) Multiply(factor int64) (Money, error) {
	if !m.IsDefined() {
		return Money{}, NewError(ErrCodeInvalidMoney, "cannot multiply undefined money")
	}
	if factor < 0 {
		return Money{}, Errorf(ErrCodeInvalidMoney, "factor %d must not be negative", factor)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.currency}, nil
}

// DivideRound divides by n and rounds half-up to the currency scale.
func (m Money) DivideRound(n int64) (Money, error) {
	if !m.IsDefined() {
		return Money{}, NewError(ErrCodeInvalidMoney, "cannot divide undefined money")
	}
	if n <= 0 {
		return Money{}, Errorf(ErrCodeInvalidMoney, "divisor %d must be positive", n)
	}
	return Money{amount: m.amount.DivRound(decimal.NewFromInt(n), m.Scale()), currency: m.currency}, nil
}

// Compare returns -1, 0 or 1; currencies must match.
func (m Money) Compare(other Money) (int, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c < 0, err
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c > 0, err
}

func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c >= 0, err
}

// Equal is value equality: same currency and numerically equal amounts.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	if !m.IsDefined() {
		return "<undefined>"
	}
	return m.amount.StringFixed(m.Scale()) + " " + m.currency
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.IsDefined() {
		return []byte("null"), nil
	}
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(ErrCodeInvalidMoney, "malformed money", err)
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
