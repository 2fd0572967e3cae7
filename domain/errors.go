package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable failure classification shared across layers.
type ErrorCode string

// Structural validation.
const (
	ErrCodeInvalidProduct      ErrorCode = "INVALID_PRODUCT"
	ErrCodeInvalidOrder        ErrorCode = "INVALID_ORDER"
	ErrCodeInvalidOrderItem    ErrorCode = "INVALID_ORDER_ITEM"
	ErrCodeInvalidAddress      ErrorCode = "INVALID_ADDRESS"
	ErrCodeInvalidMoney        ErrorCode = "INVALID_MONEY"
	ErrCodeInvalidQuantity     ErrorCode = "INVALID_QUANTITY"
	ErrCodeInvalidCustomerInfo ErrorCode = "INVALID_CUSTOMER_INFO"
	ErrCodeInvalidOrderNumber  ErrorCode = "INVALID_ORDER_NUMBER"
	ErrCodeInvalidCancellation ErrorCode = "INVALID_CANCELLATION"
)

// Lifecycle violations.
const (
	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeOrderNotModifiable      ErrorCode = "ORDER_NOT_MODIFIABLE"
	ErrCodeProductNotModifiable    ErrorCode = "PRODUCT_NOT_MODIFIABLE"
	ErrCodeCannotSubmitOrder       ErrorCode = "CANNOT_SUBMIT_ORDER"
)

// Not found.
const (
	ErrCodeItemNotFound    ErrorCode = "ITEM_NOT_FOUND"
	ErrCodeOrderNotFound   ErrorCode = "ORDER_NOT_FOUND"
	ErrCodeProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"
)

// Business rules.
const (
	ErrCodeOrderBelowMinimum   ErrorCode = "ORDER_BELOW_MINIMUM"
	ErrCodeOrderEmpty          ErrorCode = "ORDER_EMPTY"
	ErrCodeMissingCustomerInfo ErrorCode = "MISSING_CUSTOMER_INFO"
	ErrCodeProductUnavailable  ErrorCode = "PRODUCT_UNAVAILABLE"
)

// Concurrency and infrastructure.
const (
	ErrCodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
	ErrCodeInternal            ErrorCode = "INTERNAL"
)

// ErrorKind groups codes so transport layers can map them without knowing every code.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindLifecycle  ErrorKind = "lifecycle"
	KindNotFound   ErrorKind = "not_found"
	KindBusiness   ErrorKind = "business"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

// Kind reports the taxonomy group of the code.
func (c ErrorCode) Kind() ErrorKind {
	switch c {
	case ErrCodeInvalidProduct, ErrCodeInvalidOrder, ErrCodeInvalidOrderItem, ErrCodeInvalidAddress,
		ErrCodeInvalidMoney, ErrCodeInvalidQuantity, ErrCodeInvalidCustomerInfo, ErrCodeInvalidOrderNumber,
		ErrCodeInvalidCancellation:
		return KindValidation
	case ErrCodeInvalidStatusTransition, ErrCodeOrderNotModifiable, ErrCodeProductNotModifiable,
		ErrCodeCannotSubmitOrder:
		return KindLifecycle
	case ErrCodeItemNotFound, ErrCodeOrderNotFound, ErrCodeProductNotFound:
		return KindNotFound
	case ErrCodeOrderBelowMinimum, ErrCodeOrderEmpty, ErrCodeMissingCustomerInfo, ErrCodeProductUnavailable:
		return KindBusiness
	case ErrCodeConcurrencyConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds a domain error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrConcurrencyConflict is returned by repositories when the stored version moved since load.
var ErrConcurrencyConflict = NewError(ErrCodeConcurrencyConflict, "aggregate was modified concurrently")

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}

// IsConflict reports whether err is an optimistic-concurrency conflict.
func IsConflict(err error) bool {
	return IsDomainError(err, ErrCodeConcurrencyConflict)
}
