package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/reservation"
	"resbook/internal/infra"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
)

type BookingReads interface {
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Booking, error)
}

type HoldReads interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*reservation.Hold, error)
}

type ReservationQueries interface {
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingView, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
	ListActiveHolds(ctx context.Context, userID uuid.UUID) ([]*HoldView, error)
}

type reservationQueriesImpl struct {
	bookingReads BookingReads
	holdReads    HoldReads
	clock        clock.Clock
}

func NewReservationQueries(bookingReads BookingReads, holdReads HoldReads, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{
		bookingReads: bookingReads,
		holdReads:    holdReads,
		clock:        clk,
	}
}

// GetBooking is owner-scoped: a booking belonging to another user reads
// as absent.
func (q *reservationQueriesImpl) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingView, error) {
	b, err := q.bookingReads.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if b.UserID() != userID {
		return nil, errs.ErrBookingNotFound
	}
	return NewBookingView(b), nil
}

func (q *reservationQueriesImpl) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*BookingView, error) {
	bookings, err := q.bookingReads.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]*BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, NewBookingView(b))
	}
	return views, nil
}

// ListActiveHolds filters on the caller's clock, so a hold past its
// expiry never appears even before the sweeper reclaims it.
func (q *reservationQueriesImpl) ListActiveHolds(ctx context.Context, userID uuid.UUID) ([]*HoldView, error) {
	holds, err := q.holdReads.FindActiveByUser(ctx, userID, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]*HoldView, 0, len(holds))
	for _, h := range holds {
		views = append(views, NewHoldView(h))
	}
	return views, nil
}
