package ordering

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
	"github.com/fastygo/commerce/usecase"
)

const defaultAvailabilityTimeout = 2 * time.Second

// ItemInput references a catalog product; name and price are resolved from the catalog.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// CustomerInput is optional on order creation.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type CreateOrderInput struct {
	CustomerID      string
	ShippingAddress domain.Address
	Customer        *CustomerInput
	Items           []ItemInput
}

// Quote is the priced view of an order under the current pricing policy.
type Quote struct {
	OrderID  string       `json:"order_id"`
	Subtotal domain.Money `json:"subtotal"`
	Shipping domain.Money `json:"shipping"`
	Total    domain.Money `json:"total"`
}

// Options tunes the ordering use case. Zero values pick defaults.
type Options struct {
	Service             *domain.OrderDomainService
	AvailabilityTimeout time.Duration
	Retry               usecase.ConflictRetrier
	Clock               func() time.Time
}

type UseCase struct {
	orders              repository.OrderRepository
	sequence            repository.OrderNumberSequence
	products            usecase.ProductAvailability
	publisher           usecase.EventPublisher
	service             *domain.OrderDomainService
	retry               usecase.ConflictRetrier
	availabilityTimeout time.Duration
	clock               func() time.Time
	logger              *zap.Logger
}

func New(
	orders repository.OrderRepository,
	sequence repository.OrderNumberSequence,
	products usecase.ProductAvailability,
	publisher usecase.EventPublisher,
	opts Options,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = usecase.NopPublisher{}
	}
	if opts.Service == nil {
		opts.Service = domain.NewOrderDomainService(domain.DefaultPricingPolicy())
	}
	if opts.AvailabilityTimeout <= 0 {
		opts.AvailabilityTimeout = defaultAvailabilityTimeout
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	return &UseCase{
		orders:              orders,
		sequence:            sequence,
		products:            products,
		publisher:           publisher,
		service:             opts.Service,
		retry:               opts.Retry,
		availabilityTimeout: opts.AvailabilityTimeout,
		clock:               opts.Clock,
		logger:              logger,
	}
}

func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, input := range in.Items {
		item, err := uc.resolveItem(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(in.CustomerID, in.ShippingAddress, items...)
	if err != nil {
		return nil, err
	}
	if in.Customer != nil {
		info, err := domain.NewCustomerInfo(in.Customer.Name, in.Customer.Email, in.Customer.Phone)
		if err != nil {
			return nil, err
		}
		if _, err := order.SetCustomerInfo(info); err != nil {
			return nil, err
		}
	}

	events, err := uc.orders.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, events)

	uc.logger.Info("order created",
		zap.String("order_id", order.ID()),
		zap.String("customer_id", order.CustomerID()),
		zap.Int("items", order.ItemCount()),
	)
	return order, nil
}

func (uc *UseCase) SetCustomerInfo(ctx context.Context, orderID string, in CustomerInput) (*domain.Order, error) {
	info, err := domain.NewCustomerInfo(in.Name, in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "order.set_customer_info", orderID, func(o *domain.Order) error {
		_, err := o.SetCustomerInfo(info)
		return err
	})
}

// AddItem snapshots the product's current name and price into the order. The
// availability check happens once, before the order is loaded.
func (uc *UseCase) AddItem(ctx context.Context, orderID string, in ItemInput) (*domain.Order, error) {
	item, err := uc.resolveItem(ctx, in)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "order.add_item", orderID, func(o *domain.Order) error {
		_, err := o.AddItem(item)
		return err
	})
}

func (uc *UseCase) RemoveItem(ctx context.Context, orderID, productID string) (*domain.Order, error) {
	return uc.mutate(ctx, "order.remove_item", orderID, func(o *domain.Order) error {
		_, err := o.RemoveItem(productID)
		return err
	})
}

func (uc *UseCase) UpdateItemQuantity(ctx context.Context, orderID, productID string, quantity int) (*domain.Order, error) {
	q, err := domain.NewQuantity(quantity)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "order.update_item_quantity", orderID, func(o *domain.Order) error {
		_, err := o.UpdateItemQuantity(productID, q)
		return err
	})
}

// SubmitOrder validates the order against the pricing policy and current
// product availability, allocates the next order number for the current year
// and moves the order to PENDING. A number consumed by an attempt that later
// loses a concurrency race is not reused.
func (uc *UseCase) SubmitOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.mutate(ctx, "order.submit", orderID, func(o *domain.Order) error {
		if !o.Status().CanSubmit() {
			return o.CheckSubmittable()
		}
		if err := uc.service.ValidateOrderForSubmission(o); err != nil {
			return err
		}
		if err := uc.validateAvailability(ctx, o); err != nil {
			return err
		}
		if err := o.CheckSubmittable(); err != nil {
			return err
		}

		year := uc.clock().Year()
		seq, err := uc.sequence.Next(ctx, year)
		if err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "failed to allocate order number", err)
		}
		number, err := domain.NewOrderNumber(year, seq)
		if err != nil {
			return err
		}
		_, err = o.Submit(number)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order submitted",
		zap.String("order_id", order.ID()),
		zap.String("order_number", order.OrderNumber().String()),
		zap.String("total", order.CalculateTotalAmount().String()),
	)
	return order, nil
}

func (uc *UseCase) ConfirmOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.transition(ctx, "order.confirm", orderID, (*domain.Order).Confirm)
}

func (uc *UseCase) StartProcessing(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.transition(ctx, "order.start_processing", orderID, (*domain.Order).StartProcessing)
}

func (uc *UseCase) ShipOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.transition(ctx, "order.ship", orderID, (*domain.Order).Ship)
}

func (uc *UseCase) DeliverOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.transition(ctx, "order.deliver", orderID, (*domain.Order).Deliver)
}

func (uc *UseCase) CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	return uc.mutate(ctx, "order.cancel", orderID, func(o *domain.Order) error {
		_, err := o.Cancel(reason)
		return err
	})
}

func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.orders.FindByID(ctx, orderID)
}

// ListOrders returns every order, or only those in status when it is set.
func (uc *UseCase) ListOrders(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	if status == "" {
		return uc.orders.FindAll(ctx)
	}
	return uc.orders.FindByStatus(ctx, status)
}

func (uc *UseCase) QuoteOrder(ctx context.Context, orderID string) (Quote, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return Quote{}, err
	}
	subtotal, err := uc.service.Subtotal(order)
	if err != nil {
		return Quote{}, err
	}
	shipping, err := uc.service.CalculateShippingCost(order)
	if err != nil {
		return Quote{}, err
	}
	total, err := uc.service.CalculateOrderTotal(order)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		OrderID:  order.ID(),
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    total,
	}, nil
}

func (uc *UseCase) Statistics(ctx context.Context, status domain.OrderStatus) (domain.OrderStatistics, error) {
	orders, err := uc.ListOrders(ctx, status)
	if err != nil {
		return domain.OrderStatistics{}, err
	}
	return uc.service.CalculateStatistics(orders)
}

func (uc *UseCase) transition(
	ctx context.Context,
	operation, orderID string,
	apply func(*domain.Order) (domain.Event, error),
) (*domain.Order, error) {
	return uc.mutate(ctx, operation, orderID, func(o *domain.Order) error {
		_, err := apply(o)
		return err
	})
}

// mutate reloads the order on every attempt so a conflicting attempt's events are dropped.
func (uc *UseCase) mutate(ctx context.Context, operation, orderID string, apply func(*domain.Order) error) (*domain.Order, error) {
	var order *domain.Order
	err := uc.retry.Do(ctx, operation, func(ctx context.Context) error {
		loaded, err := uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := apply(loaded); err != nil {
			return err
		}
		events, err := uc.orders.Save(ctx, loaded)
		if err != nil {
			return err
		}
		order = loaded
		uc.publish(ctx, events)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *UseCase) resolveItem(ctx context.Context, in ItemInput) (domain.OrderItem, error) {
	quantity, err := domain.NewQuantity(in.Quantity)
	if err != nil {
		return domain.OrderItem{}, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, uc.availabilityTimeout)
	defer cancel()

	snapshot, err := uc.products.FindProduct(lookupCtx, in.ProductID)
	if err != nil {
		return domain.OrderItem{}, domain.WrapError(domain.ErrCodeProductUnavailable, "availability of product "+in.ProductID+" is unknown", err)
	}
	if snapshot == nil {
		return domain.OrderItem{}, domain.Errorf(domain.ErrCodeProductNotFound, "product %s not found", in.ProductID)
	}
	if !snapshot.Available {
		return domain.OrderItem{}, domain.Errorf(domain.ErrCodeProductUnavailable, "product %s is %s", in.ProductID, snapshot.Status)
	}
	if err := uc.service.ValidateItemPrice(snapshot.ID, snapshot.Price); err != nil {
		return domain.OrderItem{}, err
	}
	return domain.NewOrderItem(snapshot.ID, snapshot.Name, snapshot.Price, quantity)
}

// validateAvailability re-checks every line; a lookup failure counts as unavailable.
func (uc *UseCase) validateAvailability(ctx context.Context, order *domain.Order) error {
	lookupCtx, cancel := context.WithTimeout(ctx, uc.availabilityTimeout)
	defer cancel()

	available := make(map[string]bool, order.ItemCount())
	for _, item := range order.Items() {
		ok, err := uc.products.IsProductAvailable(lookupCtx, item.ProductID())
		if err != nil {
			uc.logger.Warn("product availability unknown",
				zap.String("order_id", order.ID()),
				zap.String("product_id", item.ProductID()),
				zap.Error(err),
			)
			continue
		}
		available[item.ProductID()] = ok
	}
	return uc.service.ValidateProductAvailability(order, available)
}

func (uc *UseCase) publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, events); err != nil {
		uc.logger.Error("failed to publish order events", zap.Int("count", len(events)), zap.Error(err))
	}
}
