package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrVariantRequired blocks adding a sized product without a chosen size.
	ErrVariantRequired = errors.New("variant required")

	// ErrEmptyCart blocks checkout submission of an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrMissingContact blocks checkout when the merchant phone is absent.
	ErrMissingContact = errors.New("merchant contact missing")

	// ErrCheckoutInFlight rejects a second submission while one is pending.
	ErrCheckoutInFlight = errors.New("checkout already in flight")
)

// StockConflictError is the backend's rejection of an order because the
// requested quantity exceeds available inventory. Message carries the
// merchant-facing text verbatim.
type StockConflictError struct {
	Message string
}

func (e *StockConflictError) Error() string {
	return "stock conflict: " + e.Message
}

// TransportError covers network failures and unexpected statuses from the
// order backend. The cart is never modified on this path.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order request failed: %v", e.Err)
	}
	return fmt.Sprintf("order request failed: unexpected status %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
