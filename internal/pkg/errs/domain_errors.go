package errs

import "errors"

// Sentinel errors shared across the usecase layers. Handlers map these to
// HTTP statuses; nothing below the handler layer knows about HTTP.
var (
	// Resource / schedule errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrResourceClosed   = errors.New("resource closed on requested date")

	// Availability / hold errors
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrCapacityExceeded = errors.New("requested quantity unavailable")
	ErrHoldNotFound     = errors.New("hold not found")
	ErrHoldExpired      = errors.New("hold has expired")

	// Checkout errors
	ErrCommitConflict      = errors.New("commit conflict")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidBookingState = errors.New("invalid booking state transition")

	// Coupon errors
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInactive     = errors.New("coupon is inactive")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponBelowMinimum = errors.New("cart does not meet coupon minimum")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrDuplicateCheckout      = errors.New("duplicate checkout request")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
