package transport

import "github.com/fastygo/commerce/domain"

type CreateProductRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       domain.Money `json:"price"`
	SKU         string       `json:"sku"`
}

type UpdateProductInfoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdatePriceRequest struct {
	Price domain.Money `json:"price"`
}

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id"`
	ShippingAddress AddressRequest     `json:"shipping_address"`
	Customer        *CustomerRequest   `json:"customer"`
	Items           []OrderItemRequest `json:"items"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
