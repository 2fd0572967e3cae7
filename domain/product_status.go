package domain

// ProductStatus is the catalog availability lifecycle.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

var productTransitions = map[ProductStatus]ProductStatus{
	ProductStatusDraft:    ProductStatusActive,
	ProductStatusActive:   ProductStatusInactive,
	ProductStatusInactive: ProductStatusActive,
}

// ParseProductStatus validates a stored or requested status name.
func ParseProductStatus(s string) (ProductStatus, error) {
	switch st := ProductStatus(s); st {
	case ProductStatusDraft, ProductStatusActive, ProductStatusInactive:
		return st, nil
	}
	return "", Errorf(ErrCodeInvalidProduct, "unknown product status %q", s)
}

func (s ProductStatus) CanTransitionTo(target ProductStatus) bool {
	next, ok := productTransitions[s]
	return ok && next == target
}

// TransitionTo returns target when the move is legal.
func (s ProductStatus) TransitionTo(target ProductStatus) (ProductStatus, error) {
	if !s.CanTransitionTo(target) {
		return s, Errorf(ErrCodeInvalidStatusTransition, "product cannot move from %s to %s", s, target)
	}
	return target, nil
}

func (s ProductStatus) IsAvailableForPurchase() bool { return s == ProductStatusActive }

func (s ProductStatus) IsModifiable() bool { return s == ProductStatusDraft }
