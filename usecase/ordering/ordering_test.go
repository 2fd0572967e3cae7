package ordering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
	"github.com/fastygo/commerce/repository/memory"
	"github.com/fastygo/commerce/usecase"
	"github.com/fastygo/commerce/usecase/catalog"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events []domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type blockingAvailability struct{}

func (blockingAvailability) FindProduct(ctx context.Context, _ string) (*repository.ProductSnapshot, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingAvailability) IsProductAvailable(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func (blockingAvailability) GetProductPrice(ctx context.Context, _ string) (domain.Money, bool, error) {
	<-ctx.Done()
	return domain.Money{}, false, ctx.Err()
}

type conflictOnce struct {
	repository.OrderRepository
	tripped bool
}

func (r *conflictOnce) Save(ctx context.Context, o *domain.Order) ([]domain.Event, error) {
	if !o.IsNew() && !r.tripped {
		r.tripped = true
		return nil, domain.ErrConcurrencyConflict
	}
	return r.OrderRepository.Save(ctx, o)
}

type fixture struct {
	catalog  *catalog.UseCase
	ordering *UseCase
	orders   repository.OrderRepository
	pub      *recordingPublisher
}

var fixedClock = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository(nil)
	cache := memory.NewProductSnapshotCache()
	orders := memory.NewOrderRepository(nil)
	pub := &recordingPublisher{}
	retry := usecase.NewConflictRetrier(3, nil, nil)

	return &fixture{
		catalog: catalog.New(products, cache, nil, retry, nil),
		ordering: New(orders, memory.NewOrderNumberSequence(), catalog.NewAvailability(products, cache, nil), pub, Options{
			Retry: retry,
			Clock: fixedClock,
		}, nil),
		orders: orders,
		pub:    pub,
	}
}

func (f *fixture) activeProduct(t *testing.T, sku, price string) *domain.Product {
	t.Helper()
	ctx := context.Background()
	p, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		Name:  "Product " + sku,
		Price: domain.MustMoney(price, "USD"),
		SKU:   sku,
	})
	require.NoError(t, err)
	p, err = f.catalog.ActivateProduct(ctx, p.ID())
	require.NoError(t, err)
	return p
}

func testAddress(t *testing.T) domain.Address {
	t.Helper()
	addr, err := domain.NewAddress("1 Main St", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)
	return addr
}

func (f *fixture) draft(t *testing.T, withCustomer bool) *domain.Order {
	t.Helper()
	in := CreateOrderInput{CustomerID: "cust-1", ShippingAddress: testAddress(t)}
	if withCustomer {
		in.Customer = &CustomerInput{Name: "Jane Doe", Email: "jane@example.com"}
	}
	order, err := f.ordering.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	return order
}

func TestOrdering_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.activeProduct(t, "A", "25.00")
	b := f.activeProduct(t, "B", "10.00")

	order := f.draft(t, false)
	_, err := f.ordering.SetCustomerInfo(ctx, order.ID(), CustomerInput{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	_, err = f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	_, err = f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: b.ID(), Quantity: 1})
	require.NoError(t, err)

	submitted, err := f.ordering.SubmitOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, submitted.Status())
	assert.Equal(t, "ORD-2024-00001", submitted.OrderNumber().String())
	assert.Equal(t, "60.00 USD", submitted.CalculateTotalAmount().String())

	for _, step := range []func(context.Context, string) (*domain.Order, error){
		f.ordering.ConfirmOrder,
		f.ordering.StartProcessing,
		f.ordering.ShipOrder,
		f.ordering.DeliverOrder,
	} {
		_, err := step(ctx, order.ID())
		require.NoError(t, err)
	}

	final, err := f.ordering.GetOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, final.Status())
	assert.Equal(t, int64(9), final.Version())

	assert.Equal(t, []domain.EventType{
		domain.EventOrderCreated,
		domain.EventOrderCustomerInfoUpdated,
		domain.EventOrderItemAdded,
		domain.EventOrderItemAdded,
		domain.EventOrderSubmitted,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
	}, f.pub.types())

	_, err = f.ordering.CancelOrder(ctx, order.ID(), "too late")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidStatusTransition))
}

func TestOrdering_OrderNumbersIncrease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "50.00")

	var numbers []string
	for i := 0; i < 3; i++ {
		order := f.draft(t, true)
		_, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
		require.NoError(t, err)
		submitted, err := f.ordering.SubmitOrder(ctx, order.ID())
		require.NoError(t, err)
		numbers = append(numbers, submitted.OrderNumber().String())
	}
	assert.Equal(t, []string{"ORD-2024-00001", "ORD-2024-00002", "ORD-2024-00003"}, numbers)
}

func TestOrdering_AddItemChecksCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.draft(t, true)

	draftProduct, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		Name:  "Unreleased",
		Price: domain.MustMoney("5.00", "USD"),
		SKU:   "U",
	})
	require.NoError(t, err)

	_, err = f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: draftProduct.ID(), Quantity: 1})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeProductUnavailable))

	_, err = f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: "nope", Quantity: 1})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeProductNotFound))

	_, err = f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: draftProduct.ID(), Quantity: 0})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidQuantity))

	stored, err := f.ordering.GetOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.False(t, stored.HasItems())
}

func TestOrdering_PriceSnapshotIsKept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "25.00")
	order := f.draft(t, true)

	_, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.catalog.UpdateProductPrice(ctx, p.ID(), domain.MustMoney("99.00", "USD"))
	require.NoError(t, err)

	updated, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
	require.NoError(t, err)
	item, ok := updated.FindItem(p.ID())
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity().Value())
	assert.Equal(t, "25.00 USD", item.UnitPrice().String())
}

func TestOrdering_AvailabilityTimeout(t *testing.T) {
	f := newFixture(t)
	order := f.draft(t, true)

	uc := New(f.orders, memory.NewOrderNumberSequence(), blockingAvailability{}, nil, Options{
		AvailabilityTimeout: 10 * time.Millisecond,
	}, nil)

	_, err := uc.AddItem(context.Background(), order.ID(), ItemInput{ProductID: "slow", Quantity: 1})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeProductUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestOrdering_SubmitValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cheap := f.activeProduct(t, "C", "4.00")
	regular := f.activeProduct(t, "R", "20.00")

	empty := f.draft(t, true)
	_, err := f.ordering.SubmitOrder(ctx, empty.ID())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeOrderEmpty))

	anonymous := f.draft(t, false)
	_, err = f.ordering.AddItem(ctx, anonymous.ID(), ItemInput{ProductID: regular.ID(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.ordering.SubmitOrder(ctx, anonymous.ID())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeMissingCustomerInfo))

	small := f.draft(t, true)
	_, err = f.ordering.AddItem(ctx, small.ID(), ItemInput{ProductID: cheap.ID(), Quantity: 2})
	require.NoError(t, err)
	_, err = f.ordering.SubmitOrder(ctx, small.ID())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeOrderBelowMinimum))

	stale := f.draft(t, true)
	_, err = f.ordering.AddItem(ctx, stale.ID(), ItemInput{ProductID: regular.ID(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.catalog.DeactivateProduct(ctx, regular.ID())
	require.NoError(t, err)
	_, err = f.ordering.SubmitOrder(ctx, stale.ID())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeProductUnavailable))
	assert.Contains(t, err.Error(), regular.ID())

	stored, err := f.ordering.GetOrder(ctx, stale.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDraft, stored.Status())
	assert.True(t, stored.OrderNumber().IsZero())
}

func TestOrdering_SubmitTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "20.00")
	order := f.draft(t, true)
	_, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
	require.NoError(t, err)

	_, err = f.ordering.SubmitOrder(ctx, order.ID())
	require.NoError(t, err)
	_, err = f.ordering.SubmitOrder(ctx, order.ID())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeCannotSubmitOrder))
}

func TestOrdering_CancelRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "30.00")
	order := f.draft(t, true)
	_, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
	require.NoError(t, err)

	_, err = f.ordering.CancelOrder(ctx, order.ID(), "   ")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidCancellation))

	for _, step := range []func(context.Context, string) (*domain.Order, error){
		f.ordering.SubmitOrder,
		f.ordering.ConfirmOrder,
		f.ordering.StartProcessing,
	} {
		_, err := step(ctx, order.ID())
		require.NoError(t, err)
	}
	_, err = f.ordering.CancelOrder(ctx, order.ID(), "changed mind")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidStatusTransition))

	_, err = f.ordering.ShipOrder(ctx, order.ID())
	require.NoError(t, err)
	cancelled, err := f.ordering.CancelOrder(ctx, order.ID(), "lost in transit")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status())
	assert.Equal(t, "lost in transit", cancelled.CancellationReason())
}

func TestOrdering_QuoteAndStatistics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "30.00")

	small := f.draft(t, true)
	_, err := f.ordering.AddItem(ctx, small.ID(), ItemInput{ProductID: p.ID(), Quantity: 2})
	require.NoError(t, err)
	large := f.draft(t, true)
	_, err = f.ordering.AddItem(ctx, large.ID(), ItemInput{ProductID: p.ID(), Quantity: 4})
	require.NoError(t, err)

	quote, err := f.ordering.QuoteOrder(ctx, small.ID())
	require.NoError(t, err)
	assert.Equal(t, "60.00 USD", quote.Subtotal.String())
	assert.Equal(t, "9.99 USD", quote.Shipping.String())
	assert.Equal(t, "69.99 USD", quote.Total.String())

	quote, err = f.ordering.QuoteOrder(ctx, large.ID())
	require.NoError(t, err)
	assert.True(t, quote.Shipping.IsZero())
	assert.Equal(t, "120.00 USD", quote.Total.String())

	stats, err := f.ordering.Statistics(ctx, domain.OrderStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.OrderCount)
	assert.Equal(t, "180.00 USD", stats.TotalRevenue.String())
	assert.Equal(t, "90.00 USD", stats.AverageOrderValue.String())

	stats, err = f.ordering.Statistics(ctx, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Zero(t, stats.OrderCount)
	assert.True(t, stats.TotalRevenue.IsZero())
}

func TestOrdering_RetriesConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "30.00")
	order := f.draft(t, true)

	repo := &conflictOnce{OrderRepository: f.orders}
	uc := New(repo, memory.NewOrderNumberSequence(), catalogAvailability(f), f.pub, Options{
		Retry: usecase.NewConflictRetrier(2, nil, nil),
	}, nil)

	updated, err := uc.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 3})
	require.NoError(t, err)
	assert.True(t, repo.tripped)
	item, ok := updated.FindItem(p.ID())
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity().Value(), "the failed attempt must not leak into the retry")
}

func TestOrdering_UpdateAndRemoveItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "30.00")
	order := f.draft(t, true)
	_, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
	require.NoError(t, err)

	updated, err := f.ordering.UpdateItemQuantity(ctx, order.ID(), p.ID(), 5)
	require.NoError(t, err)
	assert.Equal(t, "150.00 USD", updated.CalculateTotalAmount().String())

	_, err = f.ordering.UpdateItemQuantity(ctx, order.ID(), "missing", 1)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeItemNotFound))

	removed, err := f.ordering.RemoveItem(ctx, order.ID(), p.ID())
	require.NoError(t, err)
	assert.False(t, removed.HasItems())

	_, err = f.ordering.RemoveItem(ctx, order.ID(), p.ID())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeItemNotFound))
}

func catalogAvailability(f *fixture) usecase.ProductAvailability {
	return availabilityFunc(func(ctx context.Context, id string) (*repository.ProductSnapshot, error) {
		p, err := f.catalog.GetProduct(ctx, id)
		if err != nil {
			return nil, nil
		}
		snap := repository.SnapshotOf(p)
		return &snap, nil
	})
}

type availabilityFunc func(ctx context.Context, id string) (*repository.ProductSnapshot, error)

func (fn availabilityFunc) FindProduct(ctx context.Context, id string) (*repository.ProductSnapshot, error) {
	return fn(ctx, id)
}

func (fn availabilityFunc) IsProductAvailable(ctx context.Context, id string) (bool, error) {
	snap, err := fn(ctx, id)
	if err != nil || snap == nil {
		return false, err
	}
	return snap.Available, nil
}

func (fn availabilityFunc) GetProductPrice(ctx context.Context, id string) (domain.Money, bool, error) {
	snap, err := fn(ctx, id)
	if err != nil || snap == nil {
		return domain.Money{}, false, err
	}
	return snap.Price, true, nil
}

func TestOrdering_AddItemRejectsForeignCurrencyProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	euro, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		Name:  "Imported",
		Price: domain.MustMoney("50.00", "EUR"),
		SKU:   "EU-1",
	})
	require.NoError(t, err)
	_, err = f.catalog.ActivateProduct(ctx, euro.ID())
	require.NoError(t, err)

	order := f.draft(t, true)
	_, err = f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: euro.ID(), Quantity: 1})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidOrderItem))

	reloaded, err := f.ordering.GetOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.False(t, reloaded.HasItems())

	_, err = f.ordering.CreateOrder(ctx, CreateOrderInput{
		CustomerID:      "cust-2",
		ShippingAddress: testAddress(t),
		Items:           []ItemInput{{ProductID: euro.ID(), Quantity: 1}},
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidOrderItem))
}

func TestOrdering_StatisticsWithEmptyDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.activeProduct(t, "A", "30.00")

	f.draft(t, false)
	order := f.draft(t, true)
	_, err := f.ordering.AddItem(ctx, order.ID(), ItemInput{ProductID: p.ID(), Quantity: 1})
	require.NoError(t, err)

	stats, err := f.ordering.Statistics(ctx, domain.OrderStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.OrderCount)
	assert.Equal(t, "30.00 USD", stats.TotalRevenue.String())
	assert.Equal(t, "15.00 USD", stats.AverageOrderValue.String())
}
