package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/reservation"
	"resbook/internal/domain/resource"
	"resbook/internal/infra"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/queries"
	"resbook/internal/usecase/shared"
)

type CreateHoldParams struct {
	ResourceID uuid.UUID
	UserID     uuid.UUID
	Start      time.Time
	End        time.Time
	Quantity   int
}

type HoldCommands interface {
	CreateHold(ctx context.Context, params CreateHoldParams) (*queries.HoldView, error)
	RenewHold(ctx context.Context, holdID, userID uuid.UUID) (*queries.HoldView, error)
	ReleaseHold(ctx context.Context, holdID, userID uuid.UUID) error
	SweepExpired(ctx context.Context) (int64, error)
}

type holdCommandsImpl struct {
	resourceRepo ResourceRepository
	holdRepo     HoldRepository
	occupancy    OccupancyReads
	invalidator  AvailabilityInvalidator
	db           infra.DB
	clock        clock.Clock
	holdTTL      time.Duration
}

func NewHoldCommands(
	resourceRepo ResourceRepository,
	holdRepo HoldRepository,
	occupancy OccupancyReads,
	invalidator AvailabilityInvalidator,
	db infra.DB,
	clock clock.Clock,
	holdTTL time.Duration,
) HoldCommands {
	return &holdCommandsImpl{
		resourceRepo: resourceRepo,
		holdRepo:     holdRepo,
		occupancy:    occupancy,
		invalidator:  invalidator,
		db:           db,
		clock:        clock,
		holdTTL:      holdTTL,
	}
}

// CreateHold runs the capacity check and the insert as one unit under a
// row lock on the resource. Two conflicting requests serialize on the
// lock, so the loser observes the winner's hold and fails with
// ErrCapacityExceeded instead of over-allocating.
func (c *holdCommandsImpl) CreateHold(ctx context.Context, params CreateHoldParams) (*queries.HoldView, error) {
	now := c.clock.Now()

	tr, err := reservation.NewTimeRange(params.Start, params.End)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimeRange)
	}

	hold, err := reservation.NewHold(params.ResourceID, params.UserID, tr, params.Quantity, now, c.holdTTL)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	created, err := shared.RunInTxWithRetry(ctx, c.db, 3, func(tx infra.Querier) (*reservation.Hold, error) {
		res, err := c.resourceRepo.FindByIDForUpdate(ctx, tx, params.ResourceID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrResourceNotFound)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !res.IsActive() {
			return nil, errs.ErrResourceNotFound
		}

		open, close, err := res.HoursOn(tr.Start())
		if err != nil {
			if errors.Is(err, resource.ErrClosed) {
				return nil, errs.Mark(err, errs.ErrResourceClosed)
			}
			return nil, err
		}

		entries, err := c.occupancy.EntriesInRange(ctx, tx, params.ResourceID, open, close, now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := availability.CheckRange(res.Capacity(), params.Quantity, tr, open, close, entries); err != nil {
			switch {
			case errors.Is(err, availability.ErrOutsideHours):
				return nil, errs.Mark(err, errs.ErrInvalidTimeRange)
			case errors.Is(err, availability.ErrCapacityExceeded):
				return nil, errs.Mark(err, errs.ErrCapacityExceeded)
			default:
				return nil, errs.Mark(err, errs.ErrDomainValidation)
			}
		}

		if err := c.holdRepo.Create(ctx, tx, hold); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return hold, nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, params.ResourceID)
	return queries.NewHoldView(created), nil
}

func (c *holdCommandsImpl) RenewHold(ctx context.Context, holdID, userID uuid.UUID) (*queries.HoldView, error) {
	now := c.clock.Now()

	hold, err := c.findOwnedHold(ctx, holdID, userID)
	if err != nil {
		return nil, err
	}

	if err := hold.Renew(now, c.holdTTL); err != nil {
		return nil, errs.Mark(err, errs.ErrHoldExpired)
	}

	// Conditional write: the expiry only moves while the stored row is
	// still active and unexpired, so a renew that loses the race with
	// expiry (or a release) cannot resurrect the hold.
	extended, err := c.holdRepo.ExtendExpiry(ctx, c.db, hold.ID(), hold.ExpiresAt(), now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !extended {
		return nil, errs.Mark(errs.New("hold lapsed before renewal"), errs.ErrHoldExpired)
	}
	return queries.NewHoldView(hold), nil
}

// ReleaseHold is idempotent: releasing an already released hold reports
// success without touching storage.
func (c *holdCommandsImpl) ReleaseHold(ctx context.Context, holdID, userID uuid.UUID) error {
	hold, err := c.findOwnedHold(ctx, holdID, userID)
	if err != nil {
		return err
	}

	if hold.Status() != reservation.HoldStatusActive {
		return nil
	}

	hold.Release()
	if err := c.holdRepo.Save(ctx, c.db, hold); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.invalidate(ctx, hold.ResourceID())
	return nil
}

// SweepExpired reclaims lapsed holds. Availability and commit already
// ignore them, so this only tidies storage and user-facing hold lists.
func (c *holdCommandsImpl) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := c.holdRepo.SweepExpired(ctx, c.clock.Now())
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return swept, nil
}

func (c *holdCommandsImpl) findOwnedHold(ctx context.Context, holdID, userID uuid.UUID) (*reservation.Hold, error) {
	hold, err := c.holdRepo.FindByID(ctx, holdID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrHoldNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if hold.UserID() != userID {
		return nil, errs.ErrHoldNotFound
	}
	return hold, nil
}

func (c *holdCommandsImpl) invalidate(ctx context.Context, resourceID uuid.UUID) {
	if err := c.invalidator.Invalidate(ctx, resourceID); err != nil {
		slog.Warn("failed to invalidate availability cache", "resource_id", resourceID, "error", err)
	}
}
