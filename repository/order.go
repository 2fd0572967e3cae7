package repository

import (
	"context"

	"github.com/fastygo/commerce/domain"
)

// OrderRepository persists Order aggregates and their owned items with optimistic concurrency.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) ([]domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// OrderNumberSequence allocates per-year order sequence values from a durable counter.
type OrderNumberSequence interface {
	Next(ctx context.Context, year int) (int64, error)
}
