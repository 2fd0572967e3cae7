package usecase

import (
	"context"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
)

// EventPublisher hands committed events to downstream consumers. It is called
// only after the owning aggregate has been saved.
type EventPublisher interface {
	Publish(ctx context.Context, events []domain.Event) error
}

// ProductAvailability is the ordering side's view of the catalog. FindProduct
// returns (nil, nil) for an unknown product.
type ProductAvailability interface {
	FindProduct(ctx context.Context, productID string) (*repository.ProductSnapshot, error)
	IsProductAvailable(ctx context.Context, productID string) (bool, error)
	GetProductPrice(ctx context.Context, productID string) (domain.Money, bool, error)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []domain.Event) error { return nil }
