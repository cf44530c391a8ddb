//go:build unit

package queries_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/coupon"
	"resbook/internal/domain/reservation"
	"resbook/internal/domain/resource"
	"resbook/internal/infra"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected exec")
}

func (fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected query")
}

func (fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected query row")
}

func (fakeDB) Begin(context.Context) (pgx.Tx, error) {
	panic("unexpected begin")
}

func (fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	panic("unexpected begin tx")
}

type fakeResourceReads struct {
	resources map[uuid.UUID]*resource.Resource
}

func newFakeResourceReads(resources ...*resource.Resource) *fakeResourceReads {
	r := &fakeResourceReads{resources: make(map[uuid.UUID]*resource.Resource)}
	for _, res := range resources {
		r.resources[res.ID()] = res
	}
	return r
}

func (r *fakeResourceReads) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return res, nil
}

type fakeOccupancy struct {
	entries map[uuid.UUID][]availability.Entry
	calls   int
}

func (o *fakeOccupancy) EntriesInRange(_ context.Context, _ infra.Querier, resourceID uuid.UUID, from, to, _ time.Time) ([]availability.Entry, error) {
	o.calls++
	var overlapping []availability.Entry
	for _, e := range o.entries[resourceID] {
		if e.Start.Before(to) && e.End.After(from) {
			overlapping = append(overlapping, e)
		}
	}
	return overlapping, nil
}

func (o *fakeOccupancy) add(resourceID uuid.UUID, e availability.Entry) {
	if o.entries == nil {
		o.entries = make(map[uuid.UUID][]availability.Entry)
	}
	o.entries[resourceID] = append(o.entries[resourceID], e)
}

type cacheKey struct {
	resourceID uuid.UUID
	date       string
	quantity   int
}

type fakeCache struct {
	slots map[cacheKey][]availability.Slot
	hits  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{slots: make(map[cacheKey][]availability.Slot)}
}

func (c *fakeCache) Get(_ context.Context, resourceID uuid.UUID, date string, quantity int) ([]availability.Slot, bool) {
	slots, ok := c.slots[cacheKey{resourceID, date, quantity}]
	if ok {
		c.hits++
	}
	return slots, ok
}

func (c *fakeCache) Set(_ context.Context, resourceID uuid.UUID, date string, quantity int, slots []availability.Slot) error {
	c.slots[cacheKey{resourceID, date, quantity}] = slots
	c.sets++
	return nil
}

type fakeBookingReads struct {
	bookings map[uuid.UUID]*reservation.Booking
}

func newFakeBookingReads(bookings ...*reservation.Booking) *fakeBookingReads {
	r := &fakeBookingReads{bookings: make(map[uuid.UUID]*reservation.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID()] = b
	}
	return r
}

func (r *fakeBookingReads) FindByID(_ context.Context, id uuid.UUID) (*reservation.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return b, nil
}

func (r *fakeBookingReads) ListByUser(_ context.Context, userID uuid.UUID) ([]*reservation.Booking, error) {
	var found []*reservation.Booking
	for _, b := range r.bookings {
		if b.UserID() == userID {
			found = append(found, b)
		}
	}
	return found, nil
}

type fakeHoldReads struct {
	holds []*reservation.Hold
}

func (r *fakeHoldReads) FindActiveByUser(_ context.Context, userID uuid.UUID, now time.Time) ([]*reservation.Hold, error) {
	var found []*reservation.Hold
	for _, h := range r.holds {
		if h.UserID() == userID && h.IsActive(now) {
			found = append(found, h)
		}
	}
	return found, nil
}

type fakeCouponReads struct {
	coupons map[string]*coupon.Coupon
}

func newFakeCouponReads(coupons ...*coupon.Coupon) *fakeCouponReads {
	r := &fakeCouponReads{coupons: make(map[string]*coupon.Coupon)}
	for _, c := range coupons {
		r.coupons[c.Code().String()] = c
	}
	return r
}

func (r *fakeCouponReads) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return c, nil
}
