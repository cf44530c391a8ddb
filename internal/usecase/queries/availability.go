package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/reservation"
	"resbook/internal/domain/resource"
	"resbook/internal/infra"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
)

const dateLayout = "2006-01-02"

type GetAvailabilityParams struct {
	ResourceID uuid.UUID
	Date       time.Time
	Quantity   int
	// Optional desired range; when set, every covered bucket must be
	// available or the whole request is rejected.
	Start *time.Time
	End   *time.Time
}

type ResourceReads interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
}

type OccupancyReads interface {
	EntriesInRange(ctx context.Context, q infra.Querier, resourceID uuid.UUID, from, to, now time.Time) ([]availability.Entry, error)
}

type AvailabilityCache interface {
	Get(ctx context.Context, resourceID uuid.UUID, date string, quantity int) ([]availability.Slot, bool)
	Set(ctx context.Context, resourceID uuid.UUID, date string, quantity int, slots []availability.Slot) error
}

type AvailabilityQueries interface {
	GetAvailability(ctx context.Context, params GetAvailabilityParams) ([]availability.Slot, error)
}

type availabilityQueriesImpl struct {
	resourceReads ResourceReads
	occupancy     OccupancyReads
	cache         AvailabilityCache
	db            infra.DB
	clock         clock.Clock
}

func NewAvailabilityQueries(
	resourceReads ResourceReads,
	occupancy OccupancyReads,
	cache AvailabilityCache,
	db infra.DB,
	clock clock.Clock,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		resourceReads: resourceReads,
		occupancy:     occupancy,
		cache:         cache,
		db:            db,
		clock:         clock,
	}
}

// GetAvailability derives per-hour remaining capacity for a resource and
// date. Bookings and holds come back from one query, so the result is a
// single consistent snapshot; the cache may serve a slightly stale copy
// because over-reporting is corrected at hold-creation time.
func (q *availabilityQueriesImpl) GetAvailability(ctx context.Context, params GetAvailabilityParams) ([]availability.Slot, error) {
	if params.Quantity < 1 {
		params.Quantity = 1
	}

	res, err := q.resourceReads.FindByID(ctx, params.ResourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrResourceNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !res.IsActive() {
		return nil, errs.ErrResourceNotFound
	}

	open, close, err := res.HoursOn(params.Date)
	if err != nil {
		// Closed weekday: no slots rather than an error.
		return []availability.Slot{}, nil
	}

	slots, err := q.cachedOrCompute(ctx, params, res, open, close)
	if err != nil {
		return nil, err
	}

	if params.Start != nil && params.End != nil {
		if err := q.checkDesiredRange(ctx, params, res, open, close); err != nil {
			return nil, err
		}
	}

	return slots, nil
}

func (q *availabilityQueriesImpl) cachedOrCompute(
	ctx context.Context,
	params GetAvailabilityParams,
	res *resource.Resource,
	open, close time.Time,
) ([]availability.Slot, error) {
	date := params.Date.Format(dateLayout)
	if slots, ok := q.cache.Get(ctx, params.ResourceID, date, params.Quantity); ok {
		return slots, nil
	}

	entries, err := q.occupancy.EntriesInRange(ctx, q.db, params.ResourceID, open, close, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slots, err := availability.Compute(res.Capacity(), params.Quantity, open, close, entries)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if slots == nil {
		slots = []availability.Slot{}
	}

	// Best effort; a failed write just means the next read recomputes.
	_ = q.cache.Set(ctx, params.ResourceID, date, params.Quantity, slots)
	return slots, nil
}

// checkDesiredRange re-runs the capacity math against the database, not
// the cache: a stale cached "available" must not validate a range.
func (q *availabilityQueriesImpl) checkDesiredRange(
	ctx context.Context,
	params GetAvailabilityParams,
	res *resource.Resource,
	open, close time.Time,
) error {
	tr, err := reservation.NewTimeRange(*params.Start, *params.End)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidTimeRange)
	}

	entries, err := q.occupancy.EntriesInRange(ctx, q.db, params.ResourceID, open, close, q.clock.Now())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := availability.CheckRange(res.Capacity(), params.Quantity, tr, open, close, entries); err != nil {
		switch {
		case errors.Is(err, availability.ErrOutsideHours):
			return errs.Mark(err, errs.ErrInvalidTimeRange)
		case errors.Is(err, availability.ErrCapacityExceeded):
			return errs.Mark(err, errs.ErrCapacityExceeded)
		default:
			return errs.Mark(err, errs.ErrDomainValidation)
		}
	}
	return nil
}
