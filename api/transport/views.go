package transport

import (
	"time"

	"github.com/fastygo/commerce/domain"
)

type ProductView struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Price       domain.Money         `json:"price"`
	SKU         string               `json:"sku"`
	Status      domain.ProductStatus `json:"status"`
	Available   bool                 `json:"available"`
	Version     int64                `json:"version"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func NewProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price(),
		SKU:         p.SKU(),
		Status:      p.Status(),
		Available:   p.IsAvailableForPurchase(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func NewProductViews(products []*domain.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = NewProductView(p)
	}
	return out
}

type OrderItemView struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   domain.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
	Subtotal    domain.Money `json:"subtotal"`
}

type OrderView struct {
	ID                 string               `json:"id"`
	OrderNumber        string               `json:"order_number,omitempty"`
	CustomerID         string               `json:"customer_id"`
	Customer           *domain.CustomerInfo `json:"customer,omitempty"`
	ShippingAddress    domain.Address       `json:"shipping_address"`
	Status             domain.OrderStatus   `json:"status"`
	Items              []OrderItemView      `json:"items"`
	Total              domain.Money         `json:"total"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	Version            int64                `json:"version"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func NewOrderView(o *domain.Order) OrderView {
	items := o.Items()
	views := make([]OrderItemView, len(items))
	for i, item := range items {
		views[i] = OrderItemView{
			ID:          item.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity().Value(),
			Subtotal:    item.Subtotal(),
		}
	}

	view := OrderView{
		ID:                 o.ID(),
		OrderNumber:        o.OrderNumber().String(),
		CustomerID:         o.CustomerID(),
		ShippingAddress:    o.ShippingAddress(),
		Status:             o.Status(),
		Items:              views,
		Total:              o.CalculateTotalAmount(),
		CancellationReason: o.CancellationReason(),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
	if info, ok := o.CustomerInfo(); ok {
		view.Customer = &info
	}
	return view
}

func NewOrderViews(orders []*domain.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = NewOrderView(o)
	}
	return out
}
