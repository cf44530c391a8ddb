package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"resbook/internal/domain/coupon"
	"resbook/internal/domain/pricing"
	"resbook/internal/infra"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/errs"
)

type LineKind string

const (
	LineKindRoom      LineKind = "room"
	LineKindEquipment LineKind = "equipment"
	LineKindProduct   LineKind = "product"
)

type LineParams struct {
	Kind LineKind
	// Timed lines (room, equipment).
	RateCents     int64
	DurationHours int
	// Product lines.
	UnitPriceCents int64
	Quantity       int
}

type PriceCartParams struct {
	Lines      []LineParams
	CouponCode *string
}

type PriceCartResult struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	ItemCount     int
	LineTotals    []int64
	CouponID      *uuid.UUID
}

type CouponResult struct {
	CouponID      uuid.UUID
	DiscountCents int64
}

type CouponReads interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

// PricingQueries evaluates carts without touching reservation state, so
// clients can show a priced summary before any hold is committed.
type PricingQueries interface {
	PriceCart(ctx context.Context, params PriceCartParams) (*PriceCartResult, error)
	ValidateCoupon(ctx context.Context, code string, subtotalCents int64, itemCount int) (*CouponResult, error)
}

type pricingQueriesImpl struct {
	couponReads CouponReads
	clock       clock.Clock
}

func NewPricingQueries(couponReads CouponReads, clk clock.Clock) PricingQueries {
	return &pricingQueriesImpl{couponReads: couponReads, clock: clk}
}

func (q *pricingQueriesImpl) PriceCart(ctx context.Context, params PriceCartParams) (*PriceCartResult, error) {
	if len(params.Lines) == 0 {
		return nil, errs.Mark(errs.New("cart has no lines"), errs.ErrDomainValidation)
	}

	lines := make([]pricing.Line, 0, len(params.Lines))
	for _, lp := range params.Lines {
		line, err := buildLine(lp)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		lines = append(lines, line)
	}

	cart := pricing.NewCart(lines...)
	result := &PriceCartResult{
		SubtotalCents: cart.SubtotalCents(),
		ItemCount:     cart.ItemCount(),
	}
	for _, l := range lines {
		result.LineTotals = append(result.LineTotals, l.TotalCents())
	}

	if params.CouponCode != nil {
		couponResult, err := q.ValidateCoupon(ctx, *params.CouponCode, result.SubtotalCents, result.ItemCount)
		if err != nil {
			return nil, err
		}
		result.DiscountCents = couponResult.DiscountCents
		result.CouponID = &couponResult.CouponID
	}

	result.TotalCents = result.SubtotalCents - result.DiscountCents
	return result, nil
}

func (q *pricingQueriesImpl) ValidateCoupon(ctx context.Context, code string, subtotalCents int64, itemCount int) (*CouponResult, error) {
	entity, err := q.couponReads.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrCouponNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := entity.ValidateForCart(q.clock.Now(), subtotalCents, itemCount); err != nil {
		return nil, markCouponValidation(err)
	}

	return &CouponResult{
		CouponID:      entity.ID(),
		DiscountCents: entity.DiscountCents(subtotalCents),
	}, nil
}

func buildLine(lp LineParams) (pricing.Line, error) {
	switch lp.Kind {
	case LineKindRoom, LineKindEquipment:
		return pricing.NewTimedLine(lp.RateCents, lp.DurationHours, lp.Quantity)
	case LineKindProduct:
		return pricing.NewProductLine(lp.UnitPriceCents, lp.Quantity)
	default:
		return nil, errs.Newf("unknown line kind: %s", lp.Kind)
	}
}

func markCouponValidation(err error) error {
	switch {
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
