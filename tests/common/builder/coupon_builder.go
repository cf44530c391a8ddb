//go:build unit

package builder

import (
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/coupon"
)

type CouponBuilder struct {
	ID                 uuid.UUID
	Code               string
	DiscountType       coupon.DiscountType
	DiscountValue      float64
	MinimumAmountCents int64
	MinimumItems       int
	ValidUntil         *time.Time
	Active             bool
}

func NewCouponBuilder() *CouponBuilder {
	validUntil := BaseTime.Add(30 * 24 * time.Hour)
	return &CouponBuilder{
		ID:                 uuid.New(),
		Code:               "SPRING10",
		DiscountType:       coupon.DiscountTypeFixed,
		DiscountValue:      1_000,
		MinimumAmountCents: 0,
		MinimumItems:       0,
		ValidUntil:         &validUntil,
		Active:             true,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	discount, err := coupon.NewDiscount(b.DiscountType, b.DiscountValue)
	if err != nil {
		return nil, err
	}
	return coupon.NewCoupon(b.ID, b.Code, discount, b.MinimumAmountCents, b.MinimumItems, b.ValidUntil, b.Active)
}

func (b *CouponBuilder) MustBuild() *coupon.Coupon {
	c, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return c
}
