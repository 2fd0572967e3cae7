package repository

import (
	"context"

	"github.com/fastygo/commerce/domain"
)

// ProductSnapshot is the read model the ordering side sees of a catalog product.
type ProductSnapshot struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Price     domain.Money         `json:"price"`
	Status    domain.ProductStatus `json:"status"`
	Available bool                 `json:"available"`
}

// SnapshotOf projects a product into its snapshot.
func SnapshotOf(p *domain.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price(),
		Status:    p.Status(),
		Available: p.IsAvailableForPurchase(),
	}
}

// ProductSnapshotCache is a best-effort cache in front of the product repository.
// Get returns (nil, nil) on a miss.
type ProductSnapshotCache interface {
	Get(ctx context.Context, id string) (*ProductSnapshot, error)
	Save(ctx context.Context, snapshot ProductSnapshot) error
	Delete(ctx context.Context, id string) error
}
