package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderID generates a fresh order identity.
func NewOrderID() string { return uuid.NewString() }

// Order is the ordering aggregate root. Items, customer info and the order
// number change only through its methods; products are referenced by id only.
type Order struct {
	AggregateRoot
	customerID         string
	shippingAddress    Address
	items              []OrderItem
	status             OrderStatus
	orderNumber        OrderNumber
	customerInfo       CustomerInfo
	cancellationReason string
}

// NewOrder starts a DRAFT order and records OrderCreated with the total of any initial items.
// Initial items for the same product are merged.
func NewOrder(customerID string, shippingAddress Address, items ...OrderItem) (*Order, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, NewError(ErrCodeInvalidOrder, "customer id is required")
	}
	if !shippingAddress.IsDefined() {
		return nil, NewError(ErrCodeInvalidOrder, "shipping address is required")
	}

	o := &Order{
		AggregateRoot:   newAggregateRoot(NewOrderID(), AggregateOrder, time.Time{}, time.Time{}, 0),
		customerID:      customerID,
		shippingAddress: shippingAddress,
		status:          OrderStatusDraft,
	}
	lines := make([]OrderItem, 0, len(items))
	for _, item := range items {
		var err error
		if lines, _, err = o.mergeItem(lines, item); err != nil {
			return nil, err
		}
	}
	o.items = lines

	at := o.touch()
	o.record(OrderCreated{OrderID: o.id, CustomerID: customerID, TotalAmount: o.CalculateTotalAmount()}, at)
	return o, nil
}

func (o *Order) ID() string                 { return o.id }
func (o *Order) CustomerID() string         { return o.customerID }
func (o *Order) ShippingAddress() Address   { return o.shippingAddress }
func (o *Order) Status() OrderStatus        { return o.status }
func (o *Order) OrderNumber() OrderNumber   { return o.orderNumber }
func (o *Order) CancellationReason() string { return o.cancellationReason }
func (o *Order) ItemCount() int             { return len(o.items) }
func (o *Order) HasItems() bool             { return len(o.items) > 0 }

// CustomerInfo returns the contact details and whether they were set.
func (o *Order) CustomerInfo() (CustomerInfo, bool) {
	return o.customerInfo, o.customerInfo.IsDefined()
}

// Items returns a snapshot copy of the order lines.
func (o *Order) Items() []OrderItem {
	out := make([]OrderItem, len(o.items))
	copy(out, o.items)
	return out
}

// FindItem looks up the line for a product.
func (o *Order) FindItem(productID string) (OrderItem, bool) {
	if idx := indexOfProduct(o.items, productID); idx >= 0 {
		return o.items[idx], true
	}
	return OrderItem{}, false
}

// Currency is the currency of the lines, or DefaultCurrency for an empty order.
func (o *Order) Currency() string {
	if len(o.items) == 0 {
		return DefaultCurrency
	}
	return o.items[0].unitPrice.Currency()
}

// CalculateTotalAmount sums line subtotals starting from zero in the order currency.
func (o *Order) CalculateTotalAmount() Money {
	total, _ := ZeroMoney(o.Currency())
	for _, item := range o.items {
		// addItem rejects mixed currencies, so Add cannot fail here.
		total, _ = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) ensureModifiable() error {
	if !o.status.IsModifiable() {
		return Errorf(ErrCodeOrderNotModifiable, "order %s is %s; only DRAFT orders can be modified", o.id, o.status)
	}
	return nil
}

// SetCustomerInfo is legal only while DRAFT.
func (o *Order) SetCustomerInfo(info CustomerInfo) (Event, error) {
	if !o.status.CanUpdateCustomerInfo() {
		return Event{}, Errorf(ErrCodeOrderNotModifiable, "order %s is %s; customer info is locked", o.id, o.status)
	}
	if !info.IsDefined() {
		return Event{}, NewError(ErrCodeInvalidCustomerInfo, "customer info is required")
	}
	o.customerInfo = info
	at := o.touch()
	return o.record(OrderCustomerInfoUpdated{OrderID: o.id, CustomerName: info.Name(), CustomerEmail: info.Email()}, at), nil
}

// AddItem appends a line or, when the product is already present, merges the
// quantities into the existing line and keeps its price snapshot.
func (o *Order) AddItem(item OrderItem) (Event, error) {
	if err := o.ensureModifiable(); err != nil {
		return Event{}, err
	}
	lines, idx, err := o.mergeItem(o.Items(), item)
	if err != nil {
		return Event{}, err
	}
	o.items = lines

	line := lines[idx]
	subtotal, _ := line.unitPrice.Multiply(int64(item.quantity.Value()))
	at := o.touch()
	return o.record(OrderItemAdded{
		OrderID:     o.id,
		ProductID:   line.productID,
		ProductName: line.productName,
		Quantity:    item.quantity.Value(),
		UnitPrice:   line.unitPrice,
		Subtotal:    subtotal,
	}, at), nil
}

func (o *Order) mergeItem(lines []OrderItem, item OrderItem) ([]OrderItem, int, error) {
	if item.id == "" {
		return nil, -1, NewError(ErrCodeInvalidOrderItem, "order item must be created with NewOrderItem")
	}
	if len(lines) > 0 && lines[0].unitPrice.Currency() != item.unitPrice.Currency() {
		return nil, -1, Errorf(ErrCodeInvalidOrderItem, "item currency %s does not match order currency %s",
			item.unitPrice.Currency(), lines[0].unitPrice.Currency())
	}
	if idx := indexOfProduct(lines, item.productID); idx >= 0 {
		merged, err := lines[idx].quantity.Add(item.quantity)
		if err != nil {
			return nil, -1, err
		}
		lines[idx] = lines[idx].withQuantity(merged)
		return lines, idx, nil
	}
	return append(lines, item), len(lines), nil
}

func (o *Order) RemoveItem(productID string) (Event, error) {
	if err := o.ensureModifiable(); err != nil {
		return Event{}, err
	}
	idx := indexOfProduct(o.items, productID)
	if idx < 0 {
		return Event{}, Errorf(ErrCodeItemNotFound, "order %s has no item for product %s", o.id, productID)
	}
	removed := o.items[idx]
	lines := make([]OrderItem, 0, len(o.items)-1)
	lines = append(lines, o.items[:idx]...)
	lines = append(lines, o.items[idx+1:]...)
	o.items = lines

	at := o.touch()
	return o.record(OrderItemRemoved{
		OrderID:         o.id,
		ProductID:       removed.productID,
		RemovedQuantity: removed.quantity.Value(),
		RemovedAmount:   removed.Subtotal(),
	}, at), nil
}

// UpdateItemQuantity replaces the quantity of an existing line.
func (o *Order) UpdateItemQuantity(productID string, quantity Quantity) (Event, error) {
	if err := o.ensureModifiable(); err != nil {
		return Event{}, err
	}
	if !quantity.IsDefined() {
		return Event{}, NewError(ErrCodeInvalidQuantity, "quantity is required")
	}
	idx := indexOfProduct(o.items, productID)
	if idx < 0 {
		return Event{}, Errorf(ErrCodeItemNotFound, "order %s has no item for product %s", o.id, productID)
	}
	lines := o.Items()
	old := lines[idx].quantity
	lines[idx] = lines[idx].withQuantity(quantity)
	o.items = lines

	at := o.touch()
	return o.record(OrderItemQuantityChanged{
		OrderID:     o.id,
		ProductID:   productID,
		OldQuantity: old.Value(),
		NewQuantity: quantity.Value(),
		Subtotal:    lines[idx].Subtotal(),
	}, at), nil
}

// CheckSubmittable reports why Submit would fail, without changing anything.
func (o *Order) CheckSubmittable() error {
	switch {
	case !o.status.CanSubmit():
		return Errorf(ErrCodeCannotSubmitOrder, "order %s is %s; only DRAFT orders can be submitted", o.id, o.status)
	case len(o.items) == 0:
		return Errorf(ErrCodeCannotSubmitOrder, "order %s has no items", o.id)
	case !o.customerInfo.IsDefined():
		return Errorf(ErrCodeCannotSubmitOrder, "order %s has no customer info", o.id)
	}
	return nil
}

// Submit assigns the order number and moves DRAFT to PENDING. It is the only
// operation that sets the order number.
func (o *Order) Submit(number OrderNumber) (Event, error) {
	if err := o.CheckSubmittable(); err != nil {
		return Event{}, err
	}
	if number.IsZero() {
		return Event{}, NewError(ErrCodeInvalidOrderNumber, "order number is required")
	}
	o.orderNumber = number
	o.status = OrderStatusPending

	at := o.touch()
	return o.record(OrderSubmitted{
		OrderID:       o.id,
		OrderNumber:   number.String(),
		CustomerID:    o.customerID,
		CustomerEmail: o.customerInfo.Email(),
		TotalAmount:   o.CalculateTotalAmount(),
		ItemCount:     len(o.items),
	}, at), nil
}

func (o *Order) Confirm() (Event, error)         { return o.advance(OrderStatusConfirmed) }
func (o *Order) StartProcessing() (Event, error) { return o.advance(OrderStatusProcessing) }
func (o *Order) Ship() (Event, error)            { return o.advance(OrderStatusShipped) }
func (o *Order) Deliver() (Event, error)         { return o.advance(OrderStatusDelivered) }

func (o *Order) advance(target OrderStatus) (Event, error) {
	from := o.status
	next, err := from.TransitionTo(target)
	if err != nil {
		return Event{}, err
	}
	o.status = next
	at := o.touch()
	return o.record(OrderStatusChanged{OrderID: o.id, FromStatus: from, ToStatus: next}, at), nil
}

// Cancel requires a non-blank reason and a cancellable status; the refund is the current total.
func (o *Order) Cancel(reason string) (Event, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Event{}, NewError(ErrCodeInvalidCancellation, "cancellation reason is required")
	}
	next, err := o.status.TransitionTo(OrderStatusCancelled)
	if err != nil {
		return Event{}, err
	}
	o.status = next
	o.cancellationReason = reason

	at := o.touch()
	return o.record(OrderCancelled{OrderID: o.id, Reason: reason, RefundAmount: o.CalculateTotalAmount()}, at), nil
}

func indexOfProduct(items []OrderItem, productID string) int {
	for i, item := range items {
		if item.productID == productID {
			return i
		}
	}
	return -1
}

// OrderRecord is the persisted shape of an order and its owned lines.
type OrderRecord struct {
	ID                 string
	CustomerID         string
	OrderNumber        string
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	Status             OrderStatus
	Street             string
	City               string
	State              string
	ZipCode            string
	Country            string
	Subtotal           Money
	CancellationReason string
	Items              []OrderItemRecord
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (o *Order) Record() OrderRecord {
	items := make([]OrderItemRecord, len(o.items))
	for i, item := range o.items {
		items[i] = item.Record()
	}
	return OrderRecord{
		ID:                 o.id,
		CustomerID:         o.customerID,
		OrderNumber:        o.orderNumber.String(),
		CustomerName:       o.customerInfo.Name(),
		CustomerEmail:      o.customerInfo.Email(),
		CustomerPhone:      o.customerInfo.Phone(),
		Status:             o.status,
		Street:             o.shippingAddress.Street(),
		City:               o.shippingAddress.City(),
		State:              o.shippingAddress.State(),
		ZipCode:            o.shippingAddress.ZipCode(),
		Country:            o.shippingAddress.Country(),
		Subtotal:           o.CalculateTotalAmount(),
		CancellationReason: o.cancellationReason,
		Items:              items,
		Version:            o.version,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
	}
}

// ReconstituteOrder rebuilds an order from storage without validation or events.
func ReconstituteOrder(r OrderRecord) *Order {
	items := make([]OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = reconstituteOrderItem(item)
	}
	return &Order{
		AggregateRoot: newAggregateRoot(r.ID, AggregateOrder, r.CreatedAt, r.UpdatedAt, r.Version),
		customerID:    r.CustomerID,
		shippingAddress: Address{
			street:  r.Street,
			city:    r.City,
			state:   r.State,
			zip:     r.ZipCode,
			country: r.Country,
		},
		items:              items,
		status:             r.Status,
		orderNumber:        OrderNumber{value: r.OrderNumber},
		customerInfo:       CustomerInfo{name: r.CustomerName, email: r.CustomerEmail, phone: r.CustomerPhone},
		cancellationReason: r.CancellationReason,
	}
}
