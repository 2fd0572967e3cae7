package domain

// OrderStatus is the order lifecycle.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Forward moves are single steps; PROCESSING is not cancellable, DELIVERED and CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:      {OrderStatusPending, OrderStatusCancelled},
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

// AllOrderStatuses lists every status in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusDraft, OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
}

// ParseOrderStatus validates a stored or requested status name.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range AllOrderStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", Errorf(ErrCodeInvalidOrder, "unknown order status %q", s)
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the move is legal.
func (s OrderStatus) TransitionTo(target OrderStatus) (OrderStatus, error) {
	if !s.CanTransitionTo(target) {
		return s, Errorf(ErrCodeInvalidStatusTransition, "order cannot move from %s to %s", s, target)
	}
	return target, nil
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) IsModifiable() bool { return s == OrderStatusDraft }

func (s OrderStatus) CanUpdateCustomerInfo() bool { return s == OrderStatusDraft }

func (s OrderStatus) CanSubmit() bool { return s.CanTransitionTo(OrderStatusPending) }

func (s OrderStatus) CanCancel() bool { return s.CanTransitionTo(OrderStatusCancelled) }
