package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/pricing"
)

var (
	ErrBookingNotPending   = errors.New("booking is not pending payment")
	ErrBookingCancelled    = errors.New("booking is already cancelled")
	ErrInvalidBookingState = errors.New("invalid booking status")
)

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPendingPayment, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// CountsAgainstCapacity reports whether a booking in this status still
// occupies resource capacity. Cancelled bookings free their capacity.
func (s BookingStatus) CountsAgainstCapacity() bool {
	return s == BookingStatusPendingPayment || s == BookingStatusConfirmed
}

// Booking is the durable reservation created by promoting a hold at
// checkout. Payment confirmation happens after commit; a booking enters
// pending_payment and is confirmed or cancelled by the checkout flow.
type Booking struct {
	id         uuid.UUID
	resourceID uuid.UUID
	userID     uuid.UUID
	timeRange  TimeRange
	quantity   int
	status     BookingStatus
	price      pricing.Money
	couponID   *uuid.UUID
	createdAt  time.Time
	updatedAt  time.Time
}

// NewBookingFromHold promotes a hold into a pending-payment booking. The
// caller is responsible for persisting both state changes atomically.
func NewBookingFromHold(h *Hold, price pricing.Money, couponID *uuid.UUID, now time.Time) (*Booking, error) {
	if err := h.Promote(now); err != nil {
		return nil, err
	}
	return &Booking{
		id:         uuid.New(),
		resourceID: h.ResourceID(),
		userID:     h.UserID(),
		timeRange:  h.TimeRange(),
		quantity:   h.Quantity(),
		status:     BookingStatusPendingPayment,
		price:      price,
		couponID:   couponID,
		createdAt:  now,
	}, nil
}

func ReconstructBooking(
	id, resourceID, userID uuid.UUID,
	tr TimeRange,
	quantity int,
	status BookingStatus,
	price pricing.Money,
	couponID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		resourceID: resourceID,
		userID:     userID,
		timeRange:  tr,
		quantity:   quantity,
		status:     status,
		price:      price,
		couponID:   couponID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Confirm records a successful payment. Only pending bookings can be
// confirmed.
func (b *Booking) Confirm() error {
	if b.status != BookingStatusPendingPayment {
		return ErrBookingNotPending
	}
	b.status = BookingStatusConfirmed
	return nil
}

// Cancel frees the booking's capacity. Cancelling a cancelled booking is
// rejected so compensation paths stay observable.
func (b *Booking) Cancel() error {
	if b.status == BookingStatusCancelled {
		return ErrBookingCancelled
	}
	b.status = BookingStatusCancelled
	return nil
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) ResourceID() uuid.UUID { return b.resourceID }
func (b *Booking) UserID() uuid.UUID     { return b.userID }
func (b *Booking) TimeRange() TimeRange  { return b.timeRange }
func (b *Booking) Quantity() int         { return b.quantity }
func (b *Booking) Status() BookingStatus { return b.status }
func (b *Booking) Price() pricing.Money  { return b.price }
func (b *Booking) CouponID() *uuid.UUID  { return b.couponID }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }
