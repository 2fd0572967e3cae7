package domain

const (
	MinQuantity = 1
	MaxQuantity = 9999
)

// Quantity is an immutable item count bounded to [MinQuantity, MaxQuantity].
type Quantity struct {
	value int
}

// NewQuantity validates the bounds.
func NewQuantity(value int) (Quantity, error) {
	if value < MinQuantity || value > MaxQuantity {
		return Quantity{}, Errorf(ErrCodeInvalidQuantity, "quantity %d must be between %d and %d", value, MinQuantity, MaxQuantity)
	}
	return Quantity{value: value}, nil
}

// MustQuantity is NewQuantity for literals known to be valid.
func MustQuantity(value int) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Value() int { return q.value }

// IsDefined reports whether the value was constructed.
func (q Quantity) IsDefined() bool { return q.value >= MinQuantity }

func (q Quantity) Add(other Quantity) (Quantity, error) {
	return NewQuantity(q.value + other.value)
}

func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	return NewQuantity(q.value - other.value)
}
