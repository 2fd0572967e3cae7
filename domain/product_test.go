package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(NewProductID(), "Espresso Beans", "1kg bag", MustMoney("24.90", "USD"), "BEAN-1KG")
	require.NoError(t, err)
	return p
}

func TestNewProduct_StartsDraftWithOneEvent(t *testing.T) {
	p := newTestProduct(t)

	assert.Equal(t, ProductStatusDraft, p.Status())
	assert.False(t, p.IsAvailableForPurchase())
	assert.True(t, p.IsNew())

	events := p.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventProductCreated, events[0].Type)
	assert.Equal(t, AggregateProduct, events[0].AggregateType)
	assert.Equal(t, p.ID(), events[0].AggregateID)
	created, ok := events[0].Payload.(ProductCreated)
	require.True(t, ok)
	assert.Equal(t, "BEAN-1KG", created.SKU)
}

func TestNewProduct_Validation(t *testing.T) {
	price := MustMoney("1", "USD")
	tests := []struct {
		name  string
		id    string
		pname string
		price Money
		sku   string
	}{
		{"blank id", " ", "Beans", price, "SKU"},
		{"blank name", "p1", "  ", price, "SKU"},
		{"long name", "p1", strings.Repeat("x", 256), price, "SKU"},
		{"missing price", "p1", "Beans", Money{}, "SKU"},
		{"blank sku", "p1", "Beans", price, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.id, tt.pname, "", tt.price, tt.sku)
			assert.True(t, IsDomainError(err, ErrCodeInvalidProduct), "got %v", err)
		})
	}

	_, err := NewProduct("p1", strings.Repeat("x", 255), "", price, "SKU")
	assert.NoError(t, err)
}

func TestProduct_ActivateOnlyFromDraftOrInactive(t *testing.T) {
	p := newTestProduct(t)

	evt, err := p.Activate()
	require.NoError(t, err)
	assert.Equal(t, EventProductActivated, evt.Type)
	assert.True(t, p.IsAvailableForPurchase())

	_, err = p.Activate()
	assert.True(t, IsDomainError(err, ErrCodeInvalidStatusTransition))
	assert.Equal(t, ProductStatusActive, p.Status(), "status unchanged on failure")

	_, err = p.Deactivate()
	require.NoError(t, err)
	assert.Equal(t, ProductStatusInactive, p.Status())

	_, err = p.Deactivate()
	assert.True(t, IsDomainError(err, ErrCodeInvalidStatusTransition))

	_, err = p.Activate()
	require.NoError(t, err)
	assert.Len(t, p.PendingEvents(), 4)
}

func TestProduct_DeactivateFromDraftFails(t *testing.T) {
	p := newTestProduct(t)
	_, err := p.Deactivate()
	assert.True(t, IsDomainError(err, ErrCodeInvalidStatusTransition))
	assert.Equal(t, ProductStatusDraft, p.Status())
	assert.Len(t, p.PendingEvents(), 1)
}

func TestProduct_UpdateInfoOnlyWhileDraft(t *testing.T) {
	p := newTestProduct(t)

	_, err := p.UpdateInfo("Decaf Beans", "500g")
	require.NoError(t, err)
	assert.Equal(t, "Decaf Beans", p.Name())

	_, err = p.UpdateInfo("", "x")
	assert.True(t, IsDomainError(err, ErrCodeInvalidProduct))

	_, err = p.Activate()
	require.NoError(t, err)
	_, err = p.UpdateInfo("Other", "")
	assert.True(t, IsDomainError(err, ErrCodeProductNotModifiable))
	assert.Equal(t, "Decaf Beans", p.Name())
}

func TestProduct_UpdatePriceAtAnyStatus(t *testing.T) {
	p := newTestProduct(t)
	_, err := p.Activate()
	require.NoError(t, err)

	evt, err := p.UpdatePrice(MustMoney("19.90", "USD"))
	require.NoError(t, err)
	changed := evt.Payload.(ProductPriceChanged)
	assert.Equal(t, "24.90 USD", changed.OldAmount.String())
	assert.Equal(t, "19.90 USD", changed.NewAmount.String())
	assert.Equal(t, "19.90 USD", p.Price().String())

	_, err = p.UpdatePrice(Money{})
	assert.True(t, IsDomainError(err, ErrCodeInvalidProduct))
}

func TestProduct_PullEventsDrains(t *testing.T) {
	p := newTestProduct(t)
	_, _ = p.Activate()

	events := p.PullEvents()
	assert.Len(t, events, 2)
	assert.Empty(t, p.PendingEvents())
	assert.Empty(t, p.PullEvents())
}

func TestReconstituteProduct_NoEvents(t *testing.T) {
	original := newTestProduct(t)
	rec := original.Record()
	rec.Version = 7
	rec.Status = ProductStatusActive

	p := ReconstituteProduct(rec)
	assert.Equal(t, original.ID(), p.ID())
	assert.Equal(t, int64(7), p.Version())
	assert.Equal(t, ProductStatusActive, p.Status())
	assert.Empty(t, p.PendingEvents())
}
