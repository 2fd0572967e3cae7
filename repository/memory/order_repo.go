package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
)

type orderRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.OrderRecord
	log  *EventLog
}

// NewOrderRepository returns an in-process OrderRepository. log may be nil.
func NewOrderRepository(log *EventLog) repository.OrderRepository {
	return &orderRepository{rows: make(map[string]domain.OrderRecord), log: log}
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) ([]domain.Event, error) {
	if order == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidOrder, "order is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := order.Record()
	stored, exists := r.rows[rec.ID]
	if err := checkVersion(exists, stored.Version, rec.Version); err != nil {
		return nil, err
	}

	rec.Version++
	r.rows[rec.ID] = rec
	events := order.PullEvents()
	r.log.append(events)
	order.MarkPersisted(rec.Version)
	return events, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.rows[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrCodeOrderNotFound, "order %s not found", id)
	}
	return domain.ReconstituteOrder(rec), nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(func(domain.OrderRecord) bool { return true }), nil
}

func (r *orderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.list(func(rec domain.OrderRecord) bool { return rec.Status == status }), nil
}

func (r *orderRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *orderRepository) list(keep func(domain.OrderRecord) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recs := make([]domain.OrderRecord, 0, len(r.rows))
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
	out := make([]*domain.Order, len(recs))
	for i, rec := range recs {
		out[i] = domain.ReconstituteOrder(rec)
	}
	return out
}
