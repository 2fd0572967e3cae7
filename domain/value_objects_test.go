package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_Bounds(t *testing.T) {
	for _, v := range []int{1, 9999} {
		q, err := NewQuantity(v)
		require.NoError(t, err)
		assert.Equal(t, v, q.Value())
	}
	for _, v := range []int{0, -1, 10000} {
		_, err := NewQuantity(v)
		assert.True(t, IsDomainError(err, ErrCodeInvalidQuantity), "value %d", v)
	}
}

func TestQuantity_ArithmeticRevalidates(t *testing.T) {
	sum, err := MustQuantity(2).Add(MustQuantity(3))
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Value())

	_, err = MustQuantity(9999).Add(MustQuantity(1))
	assert.True(t, IsDomainError(err, ErrCodeInvalidQuantity))

	_, err = MustQuantity(2).Subtract(MustQuantity(2))
	assert.True(t, IsDomainError(err, ErrCodeInvalidQuantity))
}

func TestNewAddress(t *testing.T) {
	addr, err := NewAddress("  1 Main St ", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", addr.Street())
	assert.Equal(t, "62701", addr.ZipCode())

	_, err = NewAddress("1 Main St", "  ", "IL", "62701", "US")
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalidAddress))
	assert.Contains(t, err.Error(), "city")
}

func TestNewCustomerInfo(t *testing.T) {
	tests := []struct {
		name    string
		cname   string
		email   string
		phone   string
		wantErr bool
	}{
		{"valid without phone", "Ada Lovelace", "ada@example.com", "", false},
		{"valid with phone", "Ada Lovelace", "ada@example.com", "+1 (555) 010-2030", false},
		{"short name", "A", "ada@example.com", "", true},
		{"long name", strings.Repeat("a", 101), "ada@example.com", "", true},
		{"bad email", "Ada", "ada-at-example", "", true},
		{"bad phone", "Ada", "ada@example.com", "call me", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomerInfo(tt.cname, tt.email, tt.phone)
			if tt.wantErr {
				assert.True(t, IsDomainError(err, ErrCodeInvalidCustomerInfo))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCustomerInfo_WithFieldReturnsNewInstance(t *testing.T) {
	info, err := NewCustomerInfo("Ada Lovelace", "ada@example.com", "")
	require.NoError(t, err)

	updated, err := info.WithEmail("countess@example.com")
	require.NoError(t, err)
	assert.Equal(t, "countess@example.com", updated.Email())
	assert.Equal(t, "ada@example.com", info.Email())

	_, err = info.WithPhone("nope")
	assert.Error(t, err)
	assert.False(t, info.HasPhone())
}

func TestOrderNumber(t *testing.T) {
	n, err := NewOrderNumber(2026, 42)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00042", n.String())
	assert.Regexp(t, `^ORD-\d{4}-\d{5}$`, n.String())

	_, err = NewOrderNumber(2026, 0)
	assert.True(t, IsDomainError(err, ErrCodeInvalidOrderNumber))
	_, err = NewOrderNumber(2026, MaxOrderSequence+1)
	assert.True(t, IsDomainError(err, ErrCodeInvalidOrderNumber))

	parsed, err := ParseOrderNumber("ORD-2025-99999")
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())

	_, err = ParseOrderNumber("ORD-25-1")
	assert.True(t, IsDomainError(err, ErrCodeInvalidOrderNumber))
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, KindValidation, ErrCodeInvalidMoney.Kind())
	assert.Equal(t, KindLifecycle, ErrCodeCannotSubmitOrder.Kind())
	assert.Equal(t, KindNotFound, ErrCodeItemNotFound.Kind())
	assert.Equal(t, KindBusiness, ErrCodeOrderBelowMinimum.Kind())
	assert.Equal(t, KindConflict, ErrCodeConcurrencyConflict.Kind())
	assert.Equal(t, KindInternal, ErrorCode("SOMETHING_ELSE").Kind())

	wrapped := WrapError(ErrCodeProductUnavailable, "availability unknown", ErrConcurrencyConflict)
	assert.Equal(t, ErrCodeProductUnavailable, CodeOf(wrapped))
	// the outermost code wins
	assert.False(t, IsConflict(wrapped))
	assert.ErrorIs(t, wrapped, ErrConcurrencyConflict)
}
