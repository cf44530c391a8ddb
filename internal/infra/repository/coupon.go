package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"resbook/internal/domain/coupon"
	"resbook/internal/infra"
	"resbook/internal/pkg/pgconv"
	"resbook/internal/pkg/psqlbuilder"
)

type CouponRepository struct {
	db infra.Querier
}

func NewCouponRepository(db infra.Querier) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid coupon code", err, infra.KindNotFound)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"code",
		"discount_type",
		"discount_value",
		"minimum_amount_cents",
		"minimum_items",
		"valid_until",
		"active",
	).
		From("coupons").
		Where("code = ?", normalized.String()).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build coupon query", err)
	}

	var (
		id                 uuid.UUID
		storedCode         string
		discountType       string
		discountValue      float64
		minimumAmountCents int64
		minimumItems       int
		validUntil         pgtype.Timestamptz
		active             bool
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&id, &storedCode, &discountType, &discountValue,
		&minimumAmountCents, &minimumItems, &validUntil, &active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}

	discount, err := coupon.NewDiscount(coupon.DiscountType(discountType), discountValue)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid coupon discount row", err)
	}

	entity, err := coupon.NewCoupon(id, storedCode, discount, minimumAmountCents, minimumItems, pgconv.TimePtrFromPgtype(validUntil), active)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid coupon row", err)
	}
	return entity, nil
}

// RecordUsage persists one redemption per order; replays of the same
// order are absorbed by the primary key.
func (r *CouponRepository) RecordUsage(ctx context.Context, q infra.Querier, orderID, couponID uuid.UUID, discountCents int64, usedAt time.Time) error {
	query, args, err := psqlbuilder.Insert("coupon_usages").
		Columns("order_id", "coupon_id", "discount_cents", "used_at").
		Values(orderID, couponID, discountCents, usedAt).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build coupon usage insert", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to record coupon usage", err)
	}
	return nil
}

// FindUsageDiscount returns the discount redeemed against an order, for
// replaying a committed checkout's totals.
func (r *CouponRepository) FindUsageDiscount(ctx context.Context, orderID uuid.UUID) (int64, error) {
	query, args, err := psqlbuilder.Select("discount_cents").
		From("coupon_usages").
		Where("order_id = ?", orderID).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build coupon usage query", err)
	}

	var discountCents int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&discountCents); err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("coupon usage not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to find coupon usage", err)
	}
	return discountCents, nil
}
