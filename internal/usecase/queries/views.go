package queries

import (
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/reservation"
)

// Read models returned to the handler layer. Entities stay inside the
// usecase boundary.

type HoldView struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	UserID     uuid.UUID
	StartsAt   time.Time
	EndsAt     time.Time
	Quantity   int
	Status     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func NewHoldView(h *reservation.Hold) *HoldView {
	return &HoldView{
		ID:         h.ID(),
		ResourceID: h.ResourceID(),
		UserID:     h.UserID(),
		StartsAt:   h.TimeRange().Start(),
		EndsAt:     h.TimeRange().End(),
		Quantity:   h.Quantity(),
		Status:     string(h.Status()),
		ExpiresAt:  h.ExpiresAt(),
		CreatedAt:  h.CreatedAt(),
	}
}

type BookingView struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	UserID     uuid.UUID
	StartsAt   time.Time
	EndsAt     time.Time
	Quantity   int
	Status     string
	PriceCents int64
	CouponID   *uuid.UUID
	CreatedAt  time.Time
}

func NewBookingView(b *reservation.Booking) *BookingView {
	return &BookingView{
		ID:         b.ID(),
		ResourceID: b.ResourceID(),
		UserID:     b.UserID(),
		StartsAt:   b.TimeRange().Start(),
		EndsAt:     b.TimeRange().End(),
		Quantity:   b.Quantity(),
		Status:     string(b.Status()),
		PriceCents: b.Price().Cents(),
		CouponID:   b.CouponID(),
		CreatedAt:  b.CreatedAt(),
	}
}
