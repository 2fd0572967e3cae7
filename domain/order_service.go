package domain

import (
	"sort"
	"strings"
)

// PricingPolicy holds the thresholds used by OrderDomainService. All amounts share one currency.
type PricingPolicy struct {
	MinimumOrderAmount    Money
	FreeShippingThreshold Money
	StandardShippingCost  Money
}

// DefaultPricingPolicy is 10.00 minimum, free shipping from 100.00, otherwise 9.99 (USD).
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		MinimumOrderAmount:    MustMoney("10.00", DefaultCurrency),
		FreeShippingThreshold: MustMoney("100.00", DefaultCurrency),
		StandardShippingCost:  MustMoney("9.99", DefaultCurrency),
	}
}

// OrderDomainService holds stateless rules spanning Order and Product. It reads
// already-loaded aggregates and caller-supplied availability; it never loads or mutates.
type OrderDomainService struct {
	policy PricingPolicy
}

func NewOrderDomainService(policy PricingPolicy) *OrderDomainService {
	return &OrderDomainService{policy: policy}
}

func (s *OrderDomainService) Policy() PricingPolicy { return s.policy }

// Currency is the single currency orders are priced in.
func (s *OrderDomainService) Currency() string { return s.policy.MinimumOrderAmount.Currency() }

// ValidateItemPrice rejects a line priced outside the policy currency.
func (s *OrderDomainService) ValidateItemPrice(productID string, price Money) error {
	if price.Currency() != s.Currency() {
		return Errorf(ErrCodeInvalidOrderItem, "product %s is priced in %s; orders are priced in %s", productID, price.Currency(), s.Currency())
	}
	return nil
}

// Subtotal is the sum of the order lines; an order without items totals zero in the policy currency.
func (s *OrderDomainService) Subtotal(order *Order) (Money, error) {
	if !order.HasItems() {
		return ZeroMoney(s.Currency())
	}
	total := order.CalculateTotalAmount()
	if total.Currency() != s.Currency() {
		return Money{}, Errorf(ErrCodeInvalidOrderItem, "order %s is priced in %s; orders are priced in %s", order.ID(), total.Currency(), s.Currency())
	}
	return total, nil
}

func (s *OrderDomainService) ValidateMinimumOrderAmount(order *Order) error {
	total, err := s.Subtotal(order)
	if err != nil {
		return err
	}
	below, err := total.LessThan(s.policy.MinimumOrderAmount)
	if err != nil {
		return err
	}
	if below {
		return Errorf(ErrCodeOrderBelowMinimum, "order total %s is below the minimum of %s", total, s.policy.MinimumOrderAmount)
	}
	return nil
}

// ValidateOrderForSubmission checks items, customer info and the minimum amount, in that order.
func (s *OrderDomainService) ValidateOrderForSubmission(order *Order) error {
	if !order.HasItems() {
		return Errorf(ErrCodeOrderEmpty, "order %s has no items", order.ID())
	}
	if _, ok := order.CustomerInfo(); !ok {
		return Errorf(ErrCodeMissingCustomerInfo, "order %s has no customer info", order.ID())
	}
	return s.ValidateMinimumOrderAmount(order)
}

// ValidateProductAvailability fails naming every line whose product is not in available.
func (s *OrderDomainService) ValidateProductAvailability(order *Order, available map[string]bool) error {
	var missing []string
	for _, item := range order.Items() {
		if !available[item.ProductID()] {
			missing = append(missing, item.ProductID())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return Errorf(ErrCodeProductUnavailable, "products not available: %s", strings.Join(missing, ", "))
}

// CalculateShippingCost is free at or above the threshold, otherwise the flat standard cost.
func (s *OrderDomainService) CalculateShippingCost(order *Order) (Money, error) {
	total, err := s.Subtotal(order)
	if err != nil {
		return Money{}, err
	}
	free, err := total.GreaterThanOrEqual(s.policy.FreeShippingThreshold)
	if err != nil {
		return Money{}, err
	}
	if free {
		return ZeroMoney(total.Currency())
	}
	return s.policy.StandardShippingCost, nil
}

// CalculateOrderTotal is subtotal plus shipping.
func (s *OrderDomainService) CalculateOrderTotal(order *Order) (Money, error) {
	shipping, err := s.CalculateShippingCost(order)
	if err != nil {
		return Money{}, err
	}
	subtotal, err := s.Subtotal(order)
	if err != nil {
		return Money{}, err
	}
	return subtotal.Add(shipping)
}

// OrderStatistics summarizes a batch of orders.
type OrderStatistics struct {
	OrderCount        int   `json:"order_count"`
	TotalRevenue      Money `json:"total_revenue"`
	AverageOrderValue Money `json:"average_order_value"`
}

// CalculateStatistics returns count, revenue and the half-up rounded average in the
// policy currency; zero for an empty batch. Orders without items count but add nothing.
func (s *OrderDomainService) CalculateStatistics(orders []*Order) (OrderStatistics, error) {
	revenue, err := ZeroMoney(s.Currency())
	if err != nil {
		return OrderStatistics{}, err
	}
	if len(orders) == 0 {
		return OrderStatistics{TotalRevenue: revenue, AverageOrderValue: revenue}, nil
	}
	for _, order := range orders {
		total, err := s.Subtotal(order)
		if err != nil {
			return OrderStatistics{}, err
		}
		if revenue, err = revenue.Add(total); err != nil {
			return OrderStatistics{}, err
		}
	}
	average, err := revenue.DivideRound(int64(len(orders)))
	if err != nil {
		return OrderStatistics{}, err
	}
	return OrderStatistics{
		OrderCount:        len(orders),
		TotalRevenue:      revenue,
		AverageOrderValue: average,
	}, nil
}
