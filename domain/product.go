package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxProductNameLength = 255

// NewProductID generates a fresh product identity.
func NewProductID() string { return uuid.NewString() }

// Product is the catalog aggregate root.
type Product struct {
	AggregateRoot
	name        string
	description string
	price       Money
	sku         string
	status      ProductStatus
}

// NewProduct validates every field, starts the product in DRAFT and records ProductCreated.
func NewProduct(id, name, description string, price Money, sku string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewError(ErrCodeInvalidProduct, "product id is required")
	}
	name, err := validateProductName(name)
	if err != nil {
		return nil, err
	}
	if !price.IsDefined() {
		return nil, NewError(ErrCodeInvalidProduct, "price is required")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, NewError(ErrCodeInvalidProduct, "sku is required")
	}

	p := &Product{
		AggregateRoot: newAggregateRoot(id, AggregateProduct, time.Time{}, time.Time{}, 0),
		name:          name,
		description:   strings.TrimSpace(description),
		price:         price,
		sku:           sku,
		status:        ProductStatusDraft,
	}
	at := p.touch()
	p.record(ProductCreated{ProductID: id, Name: name, SKU: sku, Price: price}, at)
	return p, nil
}

func validateProductName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewError(ErrCodeInvalidProduct, "name is required")
	}
	if utf8.RuneCountInString(name) > maxProductNameLength {
		return "", Errorf(ErrCodeInvalidProduct, "name must be at most %d characters", maxProductNameLength)
	}
	return name, nil
}

func (p *Product) ID() string            { return p.id }
func (p *Product) Name() string          { return p.name }
func (p *Product) Description() string   { return p.description }
func (p *Product) Price() Money          { return p.price }
func (p *Product) SKU() string           { return p.sku }
func (p *Product) Status() ProductStatus { return p.status }

func (p *Product) IsAvailableForPurchase() bool { return p.status.IsAvailableForPurchase() }

func (p *Product) Activate() (Event, error) {
	next, err := p.status.TransitionTo(ProductStatusActive)
	if err != nil {
		return Event{}, err
	}
	p.status = next
	at := p.touch()
	return p.record(ProductActivated{ProductID: p.id, Name: p.name}, at), nil
}

func (p *Product) Deactivate() (Event, error) {
	next, err := p.status.TransitionTo(ProductStatusInactive)
	if err != nil {
		return Event{}, err
	}
	p.status = next
	at := p.touch()
	return p.record(ProductDeactivated{ProductID: p.id, Name: p.name}, at), nil
}

// UpdateInfo edits name and description; only legal while DRAFT.
func (p *Product) UpdateInfo(name, description string) (Event, error) {
	if !p.status.IsModifiable() {
		return Event{}, Errorf(ErrCodeProductNotModifiable, "product %s is %s; only DRAFT products can be edited", p.id, p.status)
	}
	name, err := validateProductName(name)
	if err != nil {
		return Event{}, err
	}
	p.name = name
	p.description = strings.TrimSpace(description)
	at := p.touch()
	return p.record(ProductInfoUpdated{ProductID: p.id, Name: p.name, Description: p.description}, at), nil
}

// UpdatePrice is legal at any status.
func (p *Product) UpdatePrice(newPrice Money) (Event, error) {
	if !newPrice.IsDefined() {
		return Event{}, NewError(ErrCodeInvalidProduct, "price is required")
	}
	old := p.price
	p.price = newPrice
	at := p.touch()
	return p.record(ProductPriceChanged{ProductID: p.id, OldAmount: old, NewAmount: newPrice}, at), nil
}

// ProductRecord is the persisted shape of a product.
type ProductRecord struct {
	ID          string
	Name        string
	Description string
	Price       Money
	SKU         string
	Status      ProductStatus
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) Record() ProductRecord {
	return ProductRecord{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		SKU:         p.sku,
		Status:      p.status,
		Version:     p.version,
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
}

// ReconstituteProduct rebuilds a product from storage without validation or events.
func ReconstituteProduct(r ProductRecord) *Product {
	return &Product{
		AggregateRoot: newAggregateRoot(r.ID, AggregateProduct, r.CreatedAt, r.UpdatedAt, r.Version),
		name:          r.Name,
		description:   r.Description,
		price:         r.Price,
		sku:           r.SKU,
		status:        r.Status,
	}
}
