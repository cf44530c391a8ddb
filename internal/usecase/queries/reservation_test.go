//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resbook/internal/domain/pricing"
	"resbook/internal/domain/reservation"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/queries"
	"resbook/tests/common/builder"
)

func buildBooking(t *testing.T, userID uuid.UUID) *reservation.Booking {
	t.Helper()
	hold := builder.NewHoldBuilder().
		With(func(b *builder.HoldBuilder) { b.UserID = userID }).
		MustBuild()
	price, err := pricing.NewMoney(4_000)
	require.NoError(t, err)
	booking, err := reservation.NewBookingFromHold(hold, price, nil, builder.BaseTime)
	require.NoError(t, err)
	return booking
}

func TestReservationQueries_GetBooking(t *testing.T) {
	t.Run("returns the owner's booking", func(t *testing.T) {
		userID := uuid.New()
		booking := buildBooking(t, userID)
		q := queries.NewReservationQueries(newFakeBookingReads(booking), &fakeHoldReads{}, clock.NewMockClock(builder.BaseTime))

		view, err := q.GetBooking(context.Background(), booking.ID(), userID)

		require.NoError(t, err)
		assert.Equal(t, booking.ID(), view.ID)
		assert.Equal(t, int64(4_000), view.PriceCents)
		assert.Equal(t, string(reservation.BookingStatusPendingPayment), view.Status)
	})

	t.Run("another user's booking reads as absent", func(t *testing.T) {
		booking := buildBooking(t, uuid.New())
		q := queries.NewReservationQueries(newFakeBookingReads(booking), &fakeHoldReads{}, clock.NewMockClock(builder.BaseTime))

		_, err := q.GetBooking(context.Background(), booking.ID(), uuid.New())

		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("unknown booking maps to not found", func(t *testing.T) {
		q := queries.NewReservationQueries(newFakeBookingReads(), &fakeHoldReads{}, clock.NewMockClock(builder.BaseTime))

		_, err := q.GetBooking(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func TestReservationQueries_ListUserBookings(t *testing.T) {
	userID := uuid.New()
	mine := buildBooking(t, userID)
	other := buildBooking(t, uuid.New())
	q := queries.NewReservationQueries(newFakeBookingReads(mine, other), &fakeHoldReads{}, clock.NewMockClock(builder.BaseTime))

	views, err := q.ListUserBookings(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, mine.ID(), views[0].ID)
}

func TestReservationQueries_ListActiveHolds(t *testing.T) {
	t.Run("expired holds never appear", func(t *testing.T) {
		userID := uuid.New()
		fresh := builder.NewHoldBuilder().
			With(func(b *builder.HoldBuilder) { b.UserID = userID }).
			MustBuild()
		stale := builder.NewHoldBuilder().
			With(func(b *builder.HoldBuilder) {
				b.UserID = userID
				b.Now = builder.BaseTime.Add(-time.Hour)
			}).
			MustBuild()
		holds := &fakeHoldReads{holds: []*reservation.Hold{fresh, stale}}
		q := queries.NewReservationQueries(newFakeBookingReads(), holds, clock.NewMockClock(builder.BaseTime))

		views, err := q.ListActiveHolds(context.Background(), userID)

		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, fresh.ID(), views[0].ID)
	})

	t.Run("no holds yields an empty list", func(t *testing.T) {
		q := queries.NewReservationQueries(newFakeBookingReads(), &fakeHoldReads{}, clock.NewMockClock(builder.BaseTime))

		views, err := q.ListActiveHolds(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Empty(t, views)
		assert.NotNil(t, views)
	})
}
