package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
	"github.com/fastygo/commerce/usecase"
)

// CreateProductInput carries the fields of a new catalog product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       domain.Money
	SKU         string
}

type UseCase struct {
	products  repository.ProductRepository
	cache     repository.ProductSnapshotCache
	publisher usecase.EventPublisher
	retry     usecase.ConflictRetrier
	logger    *zap.Logger
}

// New wires the catalog use case. cache and publisher may be nil.
func New(
	products repository.ProductRepository,
	cache repository.ProductSnapshotCache,
	publisher usecase.EventPublisher,
	retry usecase.ConflictRetrier,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = usecase.NopPublisher{}
	}
	return &UseCase{
		products:  products,
		cache:     cache,
		publisher: publisher,
		retry:     retry,
		logger:    logger,
	}
}

func (uc *UseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(domain.NewProductID(), in.Name, in.Description, in.Price, in.SKU)
	if err != nil {
		return nil, err
	}

	exists, err := uc.products.ExistsBySKU(ctx, product.SKU())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Errorf(domain.ErrCodeInvalidProduct, "sku %s already exists", product.SKU())
	}

	events, err := uc.products.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, events)
	uc.refreshCache(ctx, product)

	uc.logger.Info("product created", zap.String("product_id", product.ID()), zap.String("sku", product.SKU()))
	return product, nil
}

func (uc *UseCase) ActivateProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.mutate(ctx, "product.activate", id, (*domain.Product).Activate)
}

func (uc *UseCase) DeactivateProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.mutate(ctx, "product.deactivate", id, (*domain.Product).Deactivate)
}

func (uc *UseCase) UpdateProductInfo(ctx context.Context, id, name, description string) (*domain.Product, error) {
	return uc.mutate(ctx, "product.update_info", id, func(p *domain.Product) (domain.Event, error) {
		return p.UpdateInfo(name, description)
	})
}

func (uc *UseCase) UpdateProductPrice(ctx context.Context, id string, price domain.Money) (*domain.Product, error) {
	return uc.mutate(ctx, "product.update_price", id, func(p *domain.Product) (domain.Event, error) {
		return p.UpdatePrice(price)
	})
}

func (uc *UseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.products.FindByID(ctx, id)
}

// ListProducts returns every product, or only those in status when it is set.
func (uc *UseCase) ListProducts(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error) {
	if status == "" {
		return uc.products.FindAll(ctx)
	}
	return uc.products.FindByStatus(ctx, status)
}

func (uc *UseCase) mutate(
	ctx context.Context,
	operation, id string,
	apply func(*domain.Product) (domain.Event, error),
) (*domain.Product, error) {
	var product *domain.Product
	err := uc.retry.Do(ctx, operation, func(ctx context.Context) error {
		loaded, err := uc.products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := apply(loaded); err != nil {
			return err
		}
		events, err := uc.products.Save(ctx, loaded)
		if err != nil {
			return err
		}
		product = loaded
		uc.publish(ctx, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.refreshCache(ctx, product)
	return product, nil
}

func (uc *UseCase) publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, events); err != nil {
		uc.logger.Error("failed to publish product events", zap.Int("count", len(events)), zap.Error(err))
	}
}

func (uc *UseCase) refreshCache(ctx context.Context, product *domain.Product) {
	if uc.cache == nil || product == nil {
		return
	}
	if err := uc.cache.Save(ctx, repository.SnapshotOf(product)); err != nil {
		uc.logger.Warn("failed to refresh product snapshot", zap.String("product_id", product.ID()), zap.Error(err))
	}
}
