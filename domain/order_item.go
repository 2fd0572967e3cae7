package domain

import (
	"strings"

	"github.com/google/uuid"
)

// OrderItem is a line owned by an Order. Product name and unit price are a
// snapshot taken when the line was added, not a live reference to the catalog.
type OrderItem struct {
	id          string
	productID   string
	productName string
	unitPrice   Money
	quantity    Quantity
}

// NewOrderItem snapshots a product into a new line with a fresh identity.
func NewOrderItem(productID, productName string, unitPrice Money, quantity Quantity) (OrderItem, error) {
	productID = strings.TrimSpace(productID)
	productName = strings.TrimSpace(productName)
	switch {
	case productID == "":
		return OrderItem{}, NewError(ErrCodeInvalidOrderItem, "product id is required")
	case productName == "":
		return OrderItem{}, NewError(ErrCodeInvalidOrderItem, "product name is required")
	case !unitPrice.IsDefined():
		return OrderItem{}, NewError(ErrCodeInvalidOrderItem, "unit price is required")
	case !quantity.IsDefined():
		return OrderItem{}, NewError(ErrCodeInvalidOrderItem, "quantity is required")
	}
	return OrderItem{
		id:          uuid.NewString(),
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}, nil
}

func (i OrderItem) ID() string          { return i.id }
func (i OrderItem) ProductID() string   { return i.productID }
func (i OrderItem) ProductName() string { return i.productName }
func (i OrderItem) UnitPrice() Money    { return i.unitPrice }
func (i OrderItem) Quantity() Quantity  { return i.quantity }

// Subtotal is unitPrice × quantity.
func (i OrderItem) Subtotal() Money {
	// unitPrice is always defined and quantity positive, so Multiply cannot fail.
	total, _ := i.unitPrice.Multiply(int64(i.quantity.Value()))
	return total
}

func (i OrderItem) withQuantity(q Quantity) OrderItem {
	i.quantity = q
	return i
}

// OrderItemRecord is the persisted shape of an order line.
type OrderItemRecord struct {
	ID          string
	ProductID   string
	ProductName string
	UnitPrice   Money
	Quantity    int
}

func (i OrderItem) Record() OrderItemRecord {
	return OrderItemRecord{
		ID:          i.id,
		ProductID:   i.productID,
		ProductName: i.productName,
		UnitPrice:   i.unitPrice,
		Quantity:    i.quantity.Value(),
	}
}

func reconstituteOrderItem(r OrderItemRecord) OrderItem {
	return OrderItem{
		id:          r.ID,
		productID:   r.ProductID,
		productName: r.ProductName,
		unitPrice:   r.UnitPrice,
		quantity:    Quantity{value: r.Quantity},
	}
}
