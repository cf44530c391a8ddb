package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"resbook/internal/domain/pricing"
	"resbook/internal/domain/reservation"
	"resbook/internal/infra"
	"resbook/internal/pkg/pgconv"
	"resbook/internal/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"resource_id",
	"user_id",
	"starts_at",
	"ends_at",
	"quantity",
	"status",
	"price_cents",
	"coupon_id",
	"created_at",
	"updated_at",
}

type BookingRepository struct {
	db infra.Querier
}

func NewBookingRepository(db infra.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, q infra.Querier, b *reservation.Booking) error {
	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"resource_id",
			"user_id",
			"starts_at",
			"ends_at",
			"quantity",
			"status",
			"price_cents",
			"coupon_id",
			"created_at",
		).
		Values(
			b.ID(),
			b.ResourceID(),
			b.UserID(),
			b.TimeRange().Start(),
			b.TimeRange().End(),
			b.Quantity(),
			string(b.Status()),
			b.Price().Cents(),
			pgconv.UUIDPtrToPgtype(b.CouponID()),
			b.CreatedAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking insert", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Booking, error) {
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query booking", err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return bookings[0], nil
}

// FindByIDsForUpdate locks booking rows for a status transition.
func (r *BookingRepository) FindByIDsForUpdate(ctx context.Context, tx infra.Querier, ids []uuid.UUID) ([]*reservation.Booking, error) {
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build bookings lock query", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock bookings", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Booking, error) {
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build bookings query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *BookingRepository) Save(ctx context.Context, q infra.Querier, b *reservation.Booking) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(b.Status())).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", b.ID()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking update", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBookings(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*reservation.Booking, error) {
	var bookings []*reservation.Booking
	for rows.Next() {
		var (
			id, resourceID, userID uuid.UUID
			startsAt, endsAt       time.Time
			quantity               int
			status                 string
			priceCents             int64
			couponID               pgtype.UUID
			createdAt              time.Time
			updatedAt              pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &resourceID, &userID, &startsAt, &endsAt, &quantity, &status, &priceCents, &couponID, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}

		tr, err := reservation.NewTimeRange(startsAt, endsAt)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking time range", err)
		}
		price, err := pricing.NewMoney(priceCents)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking price", err)
		}

		bookings = append(bookings, reservation.ReconstructBooking(
			id, resourceID, userID, tr, quantity,
			reservation.BookingStatus(status), price,
			pgconv.UUIDPtrFromPgtype(couponID),
			createdAt, pgconv.TimeFromPgtype(updatedAt),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return bookings, nil
}
