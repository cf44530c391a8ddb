//go:build unit

package commands_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"resbook/internal/domain/availability"
	"resbook/internal/domain/coupon"
	"resbook/internal/domain/reservation"
	"resbook/internal/domain/resource"
	"resbook/internal/infra"
	"resbook/internal/infra/repository"
)

// fakeDB satisfies infra.DB with inert transactions; repositories are
// faked above the SQL layer, so no statement ever reaches the tx.
type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected direct exec")
}

func (fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected direct query")
}

func (fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected direct query row")
}

func (fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

func (fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

type fakeTx struct {
	committed bool
}

func (t *fakeTx) Begin(context.Context) (pgx.Tx, error) { return &fakeTx{}, nil }

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	return nil
}

func (t *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("unexpected copy from")
}

func (t *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("unexpected send batch")
}

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("unexpected prepare")
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected tx exec")
}

func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected tx query")
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected tx query row")
}

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeResourceRepo struct {
	resources map[uuid.UUID]*resource.Resource
}

func newFakeResourceRepo(resources ...*resource.Resource) *fakeResourceRepo {
	r := &fakeResourceRepo{resources: make(map[uuid.UUID]*resource.Resource)}
	for _, res := range resources {
		r.resources[res.ID()] = res
	}
	return r
}

func (r *fakeResourceRepo) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return res, nil
}

func (r *fakeResourceRepo) FindByIDForUpdate(ctx context.Context, _ infra.Querier, id uuid.UUID) (*resource.Resource, error) {
	return r.FindByID(ctx, id)
}

type fakeHoldRepo struct {
	holds        map[uuid.UUID]*reservation.Hold
	saved        []uuid.UUID
	created      []uuid.UUID
	failNext     error
	beforeExtend func()
}

func newFakeHoldRepo(holds ...*reservation.Hold) *fakeHoldRepo {
	r := &fakeHoldRepo{holds: make(map[uuid.UUID]*reservation.Hold)}
	for _, h := range holds {
		r.holds[h.ID()] = h
	}
	return r
}

func (r *fakeHoldRepo) Create(_ context.Context, _ infra.Querier, h *reservation.Hold) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.holds[h.ID()] = h
	r.created = append(r.created, h.ID())
	return nil
}

func (r *fakeHoldRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Hold, error) {
	h, ok := r.holds[id]
	if !ok {
		return nil, infra.WrapRepoErr("hold not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return h, nil
}

func (r *fakeHoldRepo) FindByIDsForUpdate(_ context.Context, _ infra.Querier, ids []uuid.UUID) ([]*reservation.Hold, error) {
	var found []*reservation.Hold
	for _, id := range ids {
		if h, ok := r.holds[id]; ok {
			found = append(found, h)
		}
	}
	return found, nil
}

func (r *fakeHoldRepo) FindActiveByUser(_ context.Context, userID uuid.UUID, now time.Time) ([]*reservation.Hold, error) {
	var found []*reservation.Hold
	for _, h := range r.holds {
		if h.UserID() == userID && h.IsActive(now) {
			found = append(found, h)
		}
	}
	return found, nil
}

func (r *fakeHoldRepo) Save(_ context.Context, _ infra.Querier, h *reservation.Hold) error {
	r.holds[h.ID()] = h
	r.saved = append(r.saved, h.ID())
	return nil
}

func (r *fakeHoldRepo) ExtendExpiry(_ context.Context, _ infra.Querier, id uuid.UUID, expiresAt, now time.Time) (bool, error) {
	if r.beforeExtend != nil {
		r.beforeExtend()
	}
	h, ok := r.holds[id]
	if !ok || !h.IsActive(now) {
		return false, nil
	}
	r.holds[id] = reservation.ReconstructHold(
		h.ID(), h.ResourceID(), h.UserID(), h.TimeRange(), h.Quantity(),
		h.Status(), expiresAt, h.CreatedAt(),
	)
	r.saved = append(r.saved, id)
	return true, nil
}

func (r *fakeHoldRepo) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	var swept int64
	for _, h := range r.holds {
		if h.Status() == reservation.HoldStatusActive && h.IsExpired(now) {
			h.Release()
			swept++
		}
	}
	return swept, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*reservation.Booking
	created  []*reservation.Booking
}

func newFakeBookingRepo(bookings ...*reservation.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[uuid.UUID]*reservation.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID()] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(_ context.Context, _ infra.Querier, b *reservation.Booking) error {
	r.bookings[b.ID()] = b
	r.created = append(r.created, b)
	return nil
}

func (r *fakeBookingRepo) FindByIDsForUpdate(_ context.Context, _ infra.Querier, ids []uuid.UUID) ([]*reservation.Booking, error) {
	var found []*reservation.Booking
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			found = append(found, b)
		}
	}
	return found, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, _ infra.Querier, b *reservation.Booking) error {
	r.bookings[b.ID()] = b
	return nil
}

type fakeCouponUsage struct {
	couponID      uuid.UUID
	discountCents int64
}

type fakeCouponRepo struct {
	coupons map[string]*coupon.Coupon
	usages  map[uuid.UUID]fakeCouponUsage // keyed by order id
}

func newFakeCouponRepo(coupons ...*coupon.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{
		coupons: make(map[string]*coupon.Coupon),
		usages:  make(map[uuid.UUID]fakeCouponUsage),
	}
	for _, c := range coupons {
		r.coupons[c.Code().String()] = c
	}
	return r
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return c, nil
}

func (r *fakeCouponRepo) RecordUsage(_ context.Context, _ infra.Querier, orderID, couponID uuid.UUID, discountCents int64, _ time.Time) error {
	// Mirrors the ON CONFLICT DO NOTHING semantics keyed by order id.
	if _, exists := r.usages[orderID]; !exists {
		r.usages[orderID] = fakeCouponUsage{couponID: couponID, discountCents: discountCents}
	}
	return nil
}

func (r *fakeCouponRepo) FindUsageDiscount(_ context.Context, orderID uuid.UUID) (int64, error) {
	u, ok := r.usages[orderID]
	if !ok {
		return 0, infra.WrapRepoErr("coupon usage not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return u.discountCents, nil
}

type fakeOccupancy struct {
	entries map[uuid.UUID][]availability.Entry
	err     error
}

func (o *fakeOccupancy) EntriesInRange(_ context.Context, _ infra.Querier, resourceID uuid.UUID, from, to, _ time.Time) ([]availability.Entry, error) {
	if o.err != nil {
		return nil, o.err
	}
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

type fakeIdempotencyRepo struct {
	records map[uuid.UUID]*repository.IdempotencyRecord
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{records: make(map[uuid.UUID]*repository.IdempotencyRecord)}
}

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	if _, exists := r.records[key]; exists {
		return false, nil
	}
	r.records[key] = &repository.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      "processing",
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *fakeIdempotencyRepo) Get(_ context.Context, key, _ uuid.UUID) (*repository.IdempotencyRecord, error) {
	rec, ok := r.records[key]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return rec, nil
}

func (r *fakeIdempotencyRepo) MarkCompleted(_ context.Context, _ infra.Querier, key, _ uuid.UUID, bookingIDs []uuid.UUID) error {
	rec, ok := r.records[key]
	if !ok {
		return errors.New("idempotency key missing")
	}
	rec.Status = "completed"
	rec.ResultBookingIDs = bookingIDs
	return nil
}

type fakeNotificationRepo struct {
	topics []string
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, _ infra.Querier, _, topic string, _ []byte, _ time.Time) error {
	r.topics = append(r.topics, topic)
	return nil
}

type fakeInvalidator struct {
	invalidated []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(_ context.Context, resourceID uuid.UUID) error {
	f.invalidated = append(f.invalidated, resourceID)
	return nil
}
