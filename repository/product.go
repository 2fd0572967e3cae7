package repository

import (
	"context"

	"github.com/fastygo/commerce/domain"
)

// ProductRepository persists Product aggregates with optimistic concurrency.
// Save must fail with domain.ErrConcurrencyConflict when the stored version moved
// since load, and must append the drained events in the same write.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) ([]domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByStatus(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
