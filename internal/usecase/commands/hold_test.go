//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/reservation"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/commands"
	"resbook/tests/common/builder"
)

const holdTTL = 15 * time.Minute

type holdHarness struct {
	resources   *fakeResourceRepo
	holds       *fakeHoldRepo
	occupancy   *fakeOccupancy
	invalidator *fakeInvalidator
	clock       *clock.MockClock
	commands    commands.HoldCommands
}

func newHoldHarness(t *testing.T, resources *fakeResourceRepo) *holdHarness {
	t.Helper()
	h := &holdHarness{
		resources:   resources,
		holds:       newFakeHoldRepo(),
		occupancy:   &fakeOccupancy{},
		invalidator: &fakeInvalidator{},
		clock:       clock.NewMockClock(builder.BaseTime),
	}
	h.commands = commands.NewHoldCommands(h.resources, h.holds, h.occupancy, h.invalidator, fakeDB{}, h.clock, holdTTL)
	return h
}

func TestHoldCommands_CreateHold(t *testing.T) {
	t.Run("creates hold and invalidates availability cache", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))

		view, err := h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(time.Hour),
			End:        builder.BaseTime.Add(3 * time.Hour),
			Quantity:   2,
		})

		require.NoError(t, err)
		assert.Equal(t, res.ID(), view.ResourceID)
		assert.Equal(t, 2, view.Quantity)
		assert.Equal(t, string(reservation.HoldStatusActive), view.Status)
		assert.Equal(t, builder.BaseTime.Add(holdTTL), view.ExpiresAt)
		assert.Len(t, h.holds.created, 1)
		assert.Equal(t, []uuid.UUID{res.ID()}, h.invalidator.invalidated)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))

		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(3 * time.Hour),
			End:        builder.BaseTime.Add(time.Hour),
			Quantity:   1,
		})

		assert.ErrorIs(t, err, errs.ErrInvalidTimeRange)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))

		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(time.Hour),
			End:        builder.BaseTime.Add(2 * time.Hour),
			Quantity:   0,
		})

		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("unknown resource maps to not found", func(t *testing.T) {
		h := newHoldHarness(t, newFakeResourceRepo())

		_, err := h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: uuid.New(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(time.Hour),
			End:        builder.BaseTime.Add(2 * time.Hour),
			Quantity:   1,
		})

		assert.ErrorIs(t, err, errs.ErrResourceNotFound)
	})

	t.Run("inactive resource maps to not found", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().
			With(func(b *builder.ResourceBuilder) { b.Active = false }).
			BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))

		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(time.Hour),
			End:        builder.BaseTime.Add(2 * time.Hour),
			Quantity:   1,
		})

		assert.ErrorIs(t, err, errs.ErrResourceNotFound)
	})

	t.Run("closed weekday is rejected", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))

		saturday := builder.BaseTime.AddDate(0, 0, 5)
		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      saturday.Add(time.Hour),
			End:        saturday.Add(2 * time.Hour),
			Quantity:   1,
		})

		assert.ErrorIs(t, err, errs.ErrResourceClosed)
	})

	t.Run("range outside operating hours is rejected", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))

		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(-time.Hour),
			End:        builder.BaseTime.Add(time.Hour),
			Quantity:   1,
		})

		assert.ErrorIs(t, err, errs.ErrInvalidTimeRange)
	})

	t.Run("fully booked bucket fails with capacity exceeded", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().
			With(func(b *builder.ResourceBuilder) { b.Capacity = 2 }).
			BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.occupancy.add(res.ID(), availability.Entry{
			Start:    builder.BaseTime.Add(time.Hour),
			End:      builder.BaseTime.Add(2 * time.Hour),
			Quantity: 2,
		})

		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(time.Hour),
			End:        builder.BaseTime.Add(3 * time.Hour),
			Quantity:   1,
		})

		assert.ErrorIs(t, err, errs.ErrCapacityExceeded)
		assert.Empty(t, h.holds.created)
		assert.Empty(t, h.invalidator.invalidated)
	})

	t.Run("boundary-touching occupancy does not block", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().
			With(func(b *builder.ResourceBuilder) { b.Capacity = 1 }).
			BuildDomain()
		require.NoError(t, err)
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.occupancy.add(res.ID(), availability.Entry{
			Start:    builder.BaseTime,
			End:      builder.BaseTime.Add(time.Hour),
			Quantity: 1,
		})

		_, err = h.commands.CreateHold(context.Background(), commands.CreateHoldParams{
			ResourceID: res.ID(),
			UserID:     uuid.New(),
			Start:      builder.BaseTime.Add(time.Hour),
			End:        builder.BaseTime.Add(2 * time.Hour),
			Quantity:   1,
		})

		assert.NoError(t, err)
	})
}

func TestHoldCommands_RenewHold(t *testing.T) {
	t.Run("extends the expiry from now", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		h.clock.Advance(10 * time.Minute)
		view, err := h.commands.RenewHold(context.Background(), hold.ID(), hold.UserID())

		require.NoError(t, err)
		assert.Equal(t, h.clock.Now().Add(holdTTL), view.ExpiresAt)
		assert.Equal(t, []uuid.UUID{hold.ID()}, h.holds.saved)
	})

	t.Run("expired hold cannot be renewed", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		h.clock.Advance(holdTTL + time.Second)
		_, err = h.commands.RenewHold(context.Background(), hold.ID(), hold.UserID())

		assert.ErrorIs(t, err, errs.ErrHoldExpired)
		assert.Empty(t, h.holds.saved)
	})

	t.Run("another user's hold is invisible", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		_, err = h.commands.RenewHold(context.Background(), hold.ID(), uuid.New())

		assert.ErrorIs(t, err, errs.ErrHoldNotFound)
	})

	t.Run("renew losing the race with a release does not resurrect the hold", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		// The hold is released between the ownership read and the
		// conditional expiry write, as a concurrent release (or the
		// sweeper) would do.
		h.holds.beforeExtend = func() { hold.Release() }

		_, err = h.commands.RenewHold(context.Background(), hold.ID(), hold.UserID())

		assert.ErrorIs(t, err, errs.ErrHoldExpired)
		assert.Equal(t, reservation.HoldStatusReleased, hold.Status())
		assert.Empty(t, h.holds.saved)
	})

	t.Run("unknown hold maps to not found", func(t *testing.T) {
		h := newHoldHarness(t, newFakeResourceRepo())

		_, err := h.commands.RenewHold(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, errs.ErrHoldNotFound)
	})
}

func TestHoldCommands_ReleaseHold(t *testing.T) {
	t.Run("releases and invalidates", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		err = h.commands.ReleaseHold(context.Background(), hold.ID(), hold.UserID())

		require.NoError(t, err)
		assert.Equal(t, reservation.HoldStatusReleased, hold.Status())
		assert.Equal(t, []uuid.UUID{hold.ResourceID()}, h.invalidator.invalidated)
	})

	t.Run("releasing twice is a no-op", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		hold.Release()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		err = h.commands.ReleaseHold(context.Background(), hold.ID(), hold.UserID())

		require.NoError(t, err)
		assert.Empty(t, h.holds.saved)
		assert.Empty(t, h.invalidator.invalidated)
	})

	t.Run("another user's hold is invisible", func(t *testing.T) {
		res, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)
		hold := builder.NewHoldBuilder().MustBuild()
		h := newHoldHarness(t, newFakeResourceRepo(res))
		h.holds.holds[hold.ID()] = hold

		err = h.commands.ReleaseHold(context.Background(), hold.ID(), uuid.New())

		assert.ErrorIs(t, err, errs.ErrHoldNotFound)
	})
}

func TestHoldCommands_SweepExpired(t *testing.T) {
	res, err := builder.NewResourceBuilder().BuildDomain()
	require.NoError(t, err)

	fresh := builder.NewHoldBuilder().MustBuild()
	stale := builder.NewHoldBuilder().
		With(func(b *builder.HoldBuilder) { b.Now = builder.BaseTime.Add(-time.Hour) }).
		MustBuild()

	h := newHoldHarness(t, newFakeResourceRepo(res))
	h.holds.holds[fresh.ID()] = fresh
	h.holds.holds[stale.ID()] = stale

	swept, err := h.commands.SweepExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)
	assert.Equal(t, reservation.HoldStatusActive, fresh.Status())
	assert.Equal(t, reservation.HoldStatusReleased, stale.Status())
}
