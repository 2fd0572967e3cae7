package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
)

// Availability answers ordering-side product questions from the snapshot cache,
// falling back to the product repository on a miss or a cache fault.
type Availability struct {
	products repository.ProductRepository
	cache    repository.ProductSnapshotCache
	logger   *zap.Logger
}

func NewAvailability(products repository.ProductRepository, cache repository.ProductSnapshotCache, logger *zap.Logger) *Availability {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Availability{products: products, cache: cache, logger: logger}
}

func (a *Availability) FindProduct(ctx context.Context, productID string) (*repository.ProductSnapshot, error) {
	if a.cache != nil {
		snapshot, err := a.cache.Get(ctx, productID)
		if err != nil {
			a.logger.Warn("product snapshot cache read failed", zap.String("product_id", productID), zap.Error(err))
		} else if snapshot != nil {
			return snapshot, nil
		}
	}

	product, err := a.products.FindByID(ctx, productID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeProductNotFound) {
			return nil, nil
		}
		return nil, err
	}

	snapshot := repository.SnapshotOf(product)
	if a.cache != nil {
		if err := a.cache.Save(ctx, snapshot); err != nil {
			a.logger.Warn("product snapshot cache write failed", zap.String("product_id", productID), zap.Error(err))
		}
	}
	return &snapshot, nil
}

func (a *Availability) IsProductAvailable(ctx context.Context, productID string) (bool, error) {
	snapshot, err := a.FindProduct(ctx, productID)
	if err != nil || snapshot == nil {
		return false, err
	}
	return snapshot.Available, nil
}

func (a *Availability) GetProductPrice(ctx context.Context, productID string) (domain.Money, bool, error) {
	snapshot, err := a.FindProduct(ctx, productID)
	if err != nil || snapshot == nil {
		return domain.Money{}, false, err
	}
	return snapshot.Price, true, nil
}
