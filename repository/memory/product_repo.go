package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
)

type productRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.ProductRecord
	log  *EventLog
}

// NewProductRepository returns an in-process ProductRepository. log may be nil.
func NewProductRepository(log *EventLog) repository.ProductRepository {
	return &productRepository{rows: make(map[string]domain.ProductRecord), log: log}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) ([]domain.Event, error) {
	if product == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidProduct, "product is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := product.Record()
	stored, exists := r.rows[rec.ID]
	if err := checkVersion(exists, stored.Version, rec.Version); err != nil {
		return nil, err
	}
	for id, other := range r.rows {
		if id != rec.ID && other.SKU == rec.SKU {
			return nil, domain.Errorf(domain.ErrCodeInvalidProduct, "sku %s already exists", rec.SKU)
		}
	}

	rec.Version++
	r.rows[rec.ID] = rec
	events := product.PullEvents()
	r.log.append(events)
	product.MarkPersisted(rec.Version)
	return events, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.rows[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrCodeProductNotFound, "product %s not found", id)
	}
	return domain.ReconstituteProduct(rec), nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.list(func(domain.ProductRecord) bool { return true }), nil
}

func (r *productRepository) FindByStatus(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error) {
	return r.list(func(rec domain.ProductRecord) bool { return rec.Status == status }), nil
}

func (r *productRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.rows {
		if rec.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepository) list(keep func(domain.ProductRecord) bool) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recs := make([]domain.ProductRecord, 0, len(r.rows))
	for _, rec := range r.rows {
		if keep(rec) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID < recs[j].ID
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	out := make([]*domain.Product, len(recs))
	for i, rec := range recs {
		out[i] = domain.ReconstituteProduct(rec)
	}
	return out
}

// checkVersion is the compare half of compare-and-increment.
func checkVersion(exists bool, stored, loaded int64) error {
	switch {
	case loaded == 0 && exists:
		return domain.ErrConcurrencyConflict
	case loaded != 0 && (!exists || stored != loaded):
		return domain.ErrConcurrencyConflict
	}
	return nil
}
