package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/coupon"
	"resbook/internal/domain/pricing"
	"resbook/internal/domain/reservation"
	"resbook/internal/domain/resource"
	"resbook/internal/infra"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/queries"
	"resbook/internal/usecase/shared"
)

const checkoutEndpoint = "POST /checkout/commit"

// CommitConflictError names the holds that failed re-validation so the
// client can re-run availability for exactly those lines.
type CommitConflictError struct {
	FailedHoldIDs []uuid.UUID
}

func (e *CommitConflictError) Error() string {
	return fmt.Sprintf("commit conflict: %d hold(s) failed re-validation", len(e.FailedHoldIDs))
}

type CommitParams struct {
	HoldIDs        []uuid.UUID
	UserID         uuid.UUID
	CouponCode     *string
	IdempotencyKey uuid.UUID
}

type CommitResult struct {
	Bookings      []*queries.BookingView
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	IsReplayed    bool
}

type CheckoutCommands interface {
	Commit(ctx context.Context, params CommitParams) (*CommitResult, error)
	ConfirmBookings(ctx context.Context, bookingIDs []uuid.UUID, userID uuid.UUID) error
	CancelBookings(ctx context.Context, bookingIDs []uuid.UUID, userID uuid.UUID) error
}

type checkoutCommandsImpl struct {
	holdRepo       HoldRepository
	bookingRepo    BookingRepository
	resourceRepo   ResourceRepository
	couponRepo     CouponRepository
	occupancy      OccupancyReads
	idempotency    IdempotencyRepository
	notifications  NotificationRepository
	invalidator    AvailabilityInvalidator
	db             infra.DB
	clock          clock.Clock
	idempotencyTTL time.Duration
}

func NewCheckoutCommands(
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	couponRepo CouponRepository,
	occupancy OccupancyReads,
	idempotency IdempotencyRepository,
	notifications NotificationRepository,
	invalidator AvailabilityInvalidator,
	db infra.DB,
	clock clock.Clock,
	idempotencyTTL time.Duration,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		holdRepo:       holdRepo,
		bookingRepo:    bookingRepo,
		resourceRepo:   resourceRepo,
		couponRepo:     couponRepo,
		occupancy:      occupancy,
		idempotency:    idempotency,
		notifications:  notifications,
		invalidator:    invalidator,
		db:             db,
		clock:          clock,
		idempotencyTTL: idempotencyTTL,
	}
}

// Commit promotes a checkout's holds into pending-payment bookings as one
// all-or-nothing transaction. Every hold is re-validated under row locks;
// if any fails, nothing is promoted and the failed holds are reported.
// Payment happens after commit, so no lock is ever held across a call to
// the payment collaborator.
func (c *checkoutCommandsImpl) Commit(ctx context.Context, params CommitParams) (*CommitResult, error) {
	if len(params.HoldIDs) == 0 {
		return nil, errs.Mark(errs.New("empty hold list"), errs.ErrInvalidTimeRange)
	}

	replayed, err := c.handleIdempotency(ctx, params)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	now := c.clock.Now()

	result, err := shared.RunInTxWithRetry(ctx, c.db, 3, func(tx infra.Querier) (*CommitResult, error) {
		return c.commitInTx(ctx, tx, params, now)
	})
	if err != nil {
		return nil, err
	}

	for _, b := range result.Bookings {
		c.invalidate(ctx, b.ResourceID)
	}
	return result, nil
}

func (c *checkoutCommandsImpl) commitInTx(ctx context.Context, tx infra.Querier, params CommitParams, now time.Time) (*CommitResult, error) {
	holds, err := c.holdRepo.FindByIDsForUpdate(ctx, tx, params.HoldIDs)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	byID := make(map[uuid.UUID]*reservation.Hold, len(holds))
	for _, h := range holds {
		byID[h.ID()] = h
	}

	var failed []uuid.UUID
	var valid []*reservation.Hold
	for _, id := range params.HoldIDs {
		h, ok := byID[id]
		if !ok || h.UserID() != params.UserID || !h.IsActive(now) {
			failed = append(failed, id)
			continue
		}
		valid = append(valid, h)
	}

	resources, err := c.lockResources(ctx, tx, valid)
	if err != nil {
		return nil, err
	}

	// Re-check the capacity invariant for each surviving hold. The
	// entry set includes the hold itself, so the check is that no
	// bucket exceeds capacity outright.
	for _, h := range valid {
		res := resources[h.ResourceID()]
		entries, err := c.occupancy.EntriesInRange(ctx, tx, h.ResourceID(), h.TimeRange().Start(), h.TimeRange().End(), now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := availability.VerifyWithinCapacity(res.Capacity(), h.TimeRange(), entries); err != nil {
			failed = append(failed, h.ID())
		}
	}

	if len(failed) > 0 {
		return nil, errs.Mark(&CommitConflictError{FailedHoldIDs: failed}, errs.ErrCommitConflict)
	}

	subtotal, lineTotals := c.priceHolds(valid, resources)

	var couponEntity *coupon.Coupon
	var discountCents int64
	if params.CouponCode != nil {
		couponEntity, discountCents, err = c.evaluateCoupon(ctx, *params.CouponCode, subtotal, valid)
		if err != nil {
			return nil, err
		}
	}

	var couponID *uuid.UUID
	if couponEntity != nil {
		id := couponEntity.ID()
		couponID = &id
	}

	result := &CommitResult{
		SubtotalCents: subtotal,
		DiscountCents: discountCents,
		TotalCents:    subtotal - discountCents,
	}

	bookingIDs := make([]uuid.UUID, 0, len(valid))
	for i, h := range valid {
		price, err := pricing.NewMoney(lineTotals[i])
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}

		booking, err := reservation.NewBookingFromHold(h, price, couponID, now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrCommitConflict)
		}

		if err := c.holdRepo.Save(ctx, tx, h); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := c.bookingRepo.Create(ctx, tx, booking); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		bookingIDs = append(bookingIDs, booking.ID())
		result.Bookings = append(result.Bookings, queries.NewBookingView(booking))
	}

	if couponEntity != nil {
		// The idempotency key doubles as the order id: one redemption
		// per checkout, replay-safe.
		if err := c.couponRepo.RecordUsage(ctx, tx, params.IdempotencyKey, couponEntity.ID(), discountCents, now); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	if err := c.enqueueBookingCreated(ctx, tx, params.UserID, bookingIDs, now); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := c.idempotency.MarkCompleted(ctx, tx, params.IdempotencyKey, params.UserID, bookingIDs); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return result, nil
}

// lockResources locks the distinct resource rows in id order so
// concurrent commits acquire locks in the same sequence.
func (c *checkoutCommandsImpl) lockResources(ctx context.Context, tx infra.Querier, holds []*reservation.Hold) (map[uuid.UUID]*resource.Resource, error) {
	seen := make(map[uuid.UUID]struct{}, len(holds))
	var ids []uuid.UUID
	for _, h := range holds {
		if _, ok := seen[h.ResourceID()]; !ok {
			seen[h.ResourceID()] = struct{}{}
			ids = append(ids, h.ResourceID())
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	resources := make(map[uuid.UUID]*resource.Resource, len(ids))
	for _, id := range ids {
		res, err := c.resourceRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrResourceNotFound)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		resources[id] = res
	}
	return resources, nil
}

func (c *checkoutCommandsImpl) priceHolds(holds []*reservation.Hold, resources map[uuid.UUID]*resource.Resource) (int64, []int64) {
	var subtotal int64
	totals := make([]int64, len(holds))
	for i, h := range holds {
		res := resources[h.ResourceID()]
		totals[i] = res.HourlyRateCents() * int64(h.TimeRange().Hours()) * int64(h.Quantity())
		subtotal += totals[i]
	}
	return subtotal, totals
}

func (c *checkoutCommandsImpl) evaluateCoupon(ctx context.Context, code string, subtotal int64, holds []*reservation.Hold) (*coupon.Coupon, int64, error) {
	entity, err := c.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, 0, errs.Mark(err, errs.ErrCouponNotFound)
		}
		return nil, 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var items int
	for _, h := range holds {
		items += h.Quantity()
	}

	if err := entity.ValidateForCart(c.clock.Now(), subtotal, items); err != nil {
		return nil, 0, markCouponError(err)
	}
	return entity, entity.DiscountCents(subtotal), nil
}

func (c *checkoutCommandsImpl) enqueueBookingCreated(ctx context.Context, tx infra.Querier, userID uuid.UUID, bookingIDs []uuid.UUID, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"user_id":     userID,
		"booking_ids": bookingIDs,
	})
	if err != nil {
		return err
	}
	return c.notifications.CreateJob(ctx, tx, "email", "booking.created", payload, now)
}

// ConfirmBookings records payment success reported by the external
// payment collaborator.
func (c *checkoutCommandsImpl) ConfirmBookings(ctx context.Context, bookingIDs []uuid.UUID, userID uuid.UUID) error {
	_, err := shared.RunInTx(ctx, c.db, func(tx infra.Querier) (struct{}, error) {
		return struct{}{}, c.transition(ctx, tx, bookingIDs, userID, func(b *reservation.Booking) error {
			return b.Confirm()
		})
	})
	return err
}

// CancelBookings is the compensating action after a failed payment (or
// an admin cancel): bookings flip to cancelled and their capacity frees.
func (c *checkoutCommandsImpl) CancelBookings(ctx context.Context, bookingIDs []uuid.UUID, userID uuid.UUID) error {
	resourceIDs := make(map[uuid.UUID]struct{})

	_, err := shared.RunInTx(ctx, c.db, func(tx infra.Querier) (struct{}, error) {
		return struct{}{}, c.transition(ctx, tx, bookingIDs, userID, func(b *reservation.Booking) error {
			if err := b.Cancel(); err != nil {
				return err
			}
			resourceIDs[b.ResourceID()] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return err
	}

	for id := range resourceIDs {
		c.invalidate(ctx, id)
	}
	return nil
}

func (c *checkoutCommandsImpl) transition(ctx context.Context, tx infra.Querier, bookingIDs []uuid.UUID, userID uuid.UUID, apply func(*reservation.Booking) error) error {
	bookings, err := c.bookingRepo.FindByIDsForUpdate(ctx, tx, bookingIDs)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(bookings) != len(bookingIDs) {
		return errs.ErrBookingNotFound
	}

	for _, b := range bookings {
		if b.UserID() != userID {
			return errs.ErrBookingNotFound
		}
		if err := apply(b); err != nil {
			return errs.Mark(err, errs.ErrInvalidBookingState)
		}
		if err := c.bookingRepo.Save(ctx, tx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func (c *checkoutCommandsImpl) handleIdempotency(ctx context.Context, params CommitParams) (*CommitResult, error) {
	requestHash := commitRequestHash(params)
	expiresAt := c.clock.Now().Add(c.idempotencyTTL)

	inserted, err := c.idempotency.TryInsert(ctx, params.IdempotencyKey, params.UserID, checkoutEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if inserted {
		// First claim of the key falls through to execute the commit.
		return nil, nil
	}

	existing, err := c.idempotency.Get(ctx, params.IdempotencyKey, params.UserID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	switch existing.Status {
	case "completed":
		return c.replayResult(ctx, params.IdempotencyKey, existing.ResultBookingIDs)
	case "processing":
		if existing.RequestHash != requestHash {
			return nil, errs.ErrDuplicateCheckout
		}
		// Same request, still executing on another connection.
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (c *checkoutCommandsImpl) replayResult(ctx context.Context, key uuid.UUID, bookingIDs []uuid.UUID) (*CommitResult, error) {
	bookings, err := c.bookingRepo.FindByIDsForUpdate(ctx, c.db, bookingIDs)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(bookings) != len(bookingIDs) {
		return nil, errs.Mark(errs.New("replayed bookings missing"), errs.ErrDatabaseOperationFailed)
	}

	result := &CommitResult{IsReplayed: true}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, queries.NewBookingView(b))
		result.SubtotalCents += b.Price().Cents()
	}

	// The idempotency key doubled as the order id at commit time, so the
	// redeemed discount replays from coupon_usages.
	discount, err := c.couponRepo.FindUsageDiscount(ctx, key)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		discount = 0
	}
	result.DiscountCents = discount
	result.TotalCents = result.SubtotalCents - discount
	return result, nil
}

func commitRequestHash(params CommitParams) string {
	ids := make([]string, len(params.HoldIDs))
	for i, id := range params.HoldIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	payload, _ := json.Marshal(map[string]any{
		"hold_ids": ids,
		"coupon":   params.CouponCode,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (c *checkoutCommandsImpl) invalidate(ctx context.Context, resourceID uuid.UUID) {
	if err := c.invalidator.Invalidate(ctx, resourceID); err != nil {
		slog.Warn("failed to invalidate availability cache", "resource_id", resourceID, "error", err)
	}
}

func markCouponError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, coupon.ErrCouponInactive):
		return errs.Mark(err, errs.ErrCouponInactive)
	case errors.Is(err, coupon.ErrCouponExpired):
		return errs.Mark(err, errs.ErrCouponExpired)
	case errors.Is(err, coupon.ErrCouponBelowMinimum):
		return errs.Mark(err, errs.ErrCouponBelowMinimum)
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}
