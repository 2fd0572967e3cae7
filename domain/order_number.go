package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
)

const MaxOrderSequence = 99999

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{4}-\d{5}$`)

// OrderNumber is the human-readable order reference, ORD-YYYY-NNNNN.
type OrderNumber struct {
	value string
}

// NewOrderNumber formats a year and a per-year sequence value.
func NewOrderNumber(year int, sequence int64) (OrderNumber, error) {
	if year < 1000 || year > 9999 {
		return OrderNumber{}, Errorf(ErrCodeInvalidOrderNumber, "year %d must have four digits", year)
	}
	if sequence < 1 || sequence > MaxOrderSequence {
		return OrderNumber{}, Errorf(ErrCodeInvalidOrderNumber, "sequence %d out of range 1..%d", sequence, MaxOrderSequence)
	}
	return OrderNumber{value: fmt.Sprintf("ORD-%04d-%05d", year, sequence)}, nil
}

// ParseOrderNumber validates a stored or user-supplied reference.
func ParseOrderNumber(value string) (OrderNumber, error) {
	if !orderNumberPattern.MatchString(value) {
		return OrderNumber{}, Errorf(ErrCodeInvalidOrderNumber, "order number %q does not match ORD-YYYY-NNNNN", value)
	}
	return OrderNumber{value: value}, nil
}

func (n OrderNumber) String() string { return n.value }

func (n OrderNumber) IsZero() bool { return n.value == "" }

func (n OrderNumber) MarshalJSON() ([]byte, error) {
	if n.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}
