package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/coupon"
	"resbook/internal/domain/reservation"
	"resbook/internal/domain/resource"
	"resbook/internal/infra"
	"resbook/internal/infra/repository"
)

type ResourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	FindByIDForUpdate(ctx context.Context, tx infra.Querier, id uuid.UUID) (*resource.Resource, error)
}

type HoldRepository interface {
	Create(ctx context.Context, q infra.Querier, h *reservation.Hold) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Hold, error)
	FindByIDsForUpdate(ctx context.Context, tx infra.Querier, ids []uuid.UUID) ([]*reservation.Hold, error)
	Save(ctx context.Context, q infra.Querier, h *reservation.Hold) error
	ExtendExpiry(ctx context.Context, q infra.Querier, id uuid.UUID, expiresAt, now time.Time) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, q infra.Querier, b *reservation.Booking) error
	FindByIDsForUpdate(ctx context.Context, tx infra.Querier, ids []uuid.UUID) ([]*reservation.Booking, error)
	Save(ctx context.Context, q infra.Querier, b *reservation.Booking) error
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	RecordUsage(ctx context.Context, q infra.Querier, orderID, couponID uuid.UUID, discountCents int64, usedAt time.Time) error
	FindUsageDiscount(ctx context.Context, orderID uuid.UUID) (int64, error)
}

type OccupancyReads interface {
	EntriesInRange(ctx context.Context, q infra.Querier, resourceID uuid.UUID, from, to, now time.Time) ([]availability.Entry, error)
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*repository.IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, q infra.Querier, key, userID uuid.UUID, bookingIDs []uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, q infra.Querier, kind, topic string, payload []byte, runAt time.Time) error
}

// AvailabilityInvalidator drops cached availability snapshots after a
// capacity mutation. Failures are logged, never surfaced: the cache TTL
// bounds staleness and enforcement never reads the cache.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, resourceID uuid.UUID) error
}
