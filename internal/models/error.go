package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConflictData  = errors.New("data conflicts with existing data")
	ErrDataNotFound  = errors.New("data not found")
	ErrInternalError = errors.New("internal error")

	// validation
	ErrEmptyCart        = errors.New("cart is empty")
	ErrTooManyItems     = errors.New("too many items in cart")
	ErrInvalidItem      = errors.New("invalid cart item")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidPromoCode = errors.New("invalid promo code")

	// not found
	ErrProductNotFound       = errors.New("product not found")
	ErrSpecificationNotFound = errors.New("specification not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	// authorization
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// payment
	ErrAmountMismatch       = errors.New("payment amount does not match order total")
	ErrPaymentUnderReview   = errors.New("payment requires manual review")
	ErrPaymentAlreadyExists = errors.New("order already has active payment")
)

// ItemError describes cart item that failed validation
type ItemError struct {
	Index         int
	ProductName   string
	Specification string
	Err           error
}

func (e *ItemError) Error() string {
	if e.ProductName == "" {
		return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("item %d (%s %s): %v", e.Index+1, e.ProductName, e.Specification, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ProviderError is payment provider failure, Message is safe to show to user
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s: %v", e.Message, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TooManyRequestsError is returned when request rate is exceeded
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

// NewTooManyRequestsError creates new TooManyRequestsError
func NewTooManyRequestsError(retryAfter time.Duration) TooManyRequestsError {
	return TooManyRequestsError{RetryAfter: retryAfter}
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}
