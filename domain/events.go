package domain

// EventType discriminates event payloads on the wire.
type EventType string

const (
	EventProductCreated      EventType = "product.created"
	EventProductActivated    EventType = "product.activated"
	EventProductDeactivated  EventType = "product.deactivated"
	EventProductInfoUpdated  EventType = "product.info_updated"
	EventProductPriceChanged EventType = "product.price_changed"

	EventOrderCreated             EventType = "order.created"
	EventOrderCustomerInfoUpdated EventType = "order.customer_info_updated"
	EventOrderItemAdded           EventType = "order.item_added"
	EventOrderItemRemoved         EventType = "order.item_removed"
	EventOrderItemQuantityChanged EventType = "order.item_quantity_changed"
	EventOrderSubmitted           EventType = "order.submitted"
	EventOrderStatusChanged       EventType = "order.status_changed"
	EventOrderCancelled           EventType = "order.cancelled"
)

// EventPayload is the operation-specific body of an Event.
type EventPayload interface {
	EventType() EventType
}

type ProductCreated struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Price     Money  `json:"price"`
}

type ProductActivated struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

type ProductDeactivated struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

type ProductInfoUpdated struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProductPriceChanged struct {
	ProductID string `json:"product_id"`
	OldAmount Money  `json:"old_amount"`
	NewAmount Money  `json:"new_amount"`
}

func (ProductCreated) EventType() EventType      { return EventProductCreated }
func (ProductActivated) EventType() EventType    { return EventProductActivated }
func (ProductDeactivated) EventType() EventType  { return EventProductDeactivated }
func (ProductInfoUpdated) EventType() EventType  { return EventProductInfoUpdated }
func (ProductPriceChanged) EventType() EventType { return EventProductPriceChanged }

type OrderCreated struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	TotalAmount Money  `json:"total_amount"`
}

type OrderCustomerInfoUpdated struct {
	OrderID       string `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type OrderItemAdded struct {
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	Subtotal    Money  `json:"subtotal"`
}

type OrderItemRemoved struct {
	OrderID         string `json:"order_id"`
	ProductID       string `json:"product_id"`
	RemovedQuantity int    `json:"removed_quantity"`
	RemovedAmount   Money  `json:"removed_amount"`
}

type OrderItemQuantityChanged struct {
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
	Subtotal    Money  `json:"subtotal"`
}

type OrderSubmitted struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	TotalAmount   Money  `json:"total_amount"`
	ItemCount     int    `json:"item_count"`
}

type OrderStatusChanged struct {
	OrderID    string      `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
}

type OrderCancelled struct {
	OrderID      string `json:"order_id"`
	Reason       string `json:"reason"`
	RefundAmount Money  `json:"refund_amount"`
}

func (OrderCreated) EventType() EventType             { return EventOrderCreated }
func (OrderCustomerInfoUpdated) EventType() EventType { return EventOrderCustomerInfoUpdated }
func (OrderItemAdded) EventType() EventType           { return EventOrderItemAdded }
func (OrderItemRemoved) EventType() EventType         { return EventOrderItemRemoved }
func (OrderItemQuantityChanged) EventType() EventType { return EventOrderItemQuantityChanged }
func (OrderSubmitted) EventType() EventType           { return EventOrderSubmitted }
func (OrderStatusChanged) EventType() EventType       { return EventOrderStatusChanged }
func (OrderCancelled) EventType() EventType           { return EventOrderCancelled }
