//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resbook/internal/domain/coupon"
	"resbook/tests/common/builder"
)

func TestNewCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, "SPRING10", c.Code().String())
		assert.True(t, c.IsActive())
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, code := range []string{"", "ab", "lower10", "WAY-TOO-LONG-COUPON-CODE-123", "HAS SPACE"} {
			_, err := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
				b.Code = code
			}).BuildDomain()
			assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode, "code %q", code)
		}
	})
}

func TestValidateForCart(t *testing.T) {
	subtotal := int64(10_000)

	cases := []struct {
		name   string
		mutate func(*builder.CouponBuilder)
		now    time.Time
		errIs  error
	}{
		{
			name: "valid coupon passes",
			now:  builder.BaseTime,
		},
		{
			name:   "inactive reported before expiry",
			mutate: func(b *builder.CouponBuilder) { b.Active = false },
			now:    builder.BaseTime.Add(365 * 24 * time.Hour),
			errIs:  coupon.ErrCouponInactive,
		},
		{
			name:  "expired coupon",
			now:   builder.BaseTime.Add(31 * 24 * time.Hour),
			errIs: coupon.ErrCouponExpired,
		},
		{
			name:   "no expiry means never expires",
			mutate: func(b *builder.CouponBuilder) { b.ValidUntil = nil },
			now:    builder.BaseTime.Add(365 * 24 * time.Hour),
		},
		{
			name:   "subtotal below minimum",
			mutate: func(b *builder.CouponBuilder) { b.MinimumAmountCents = subtotal + 1 },
			now:    builder.BaseTime,
			errIs:  coupon.ErrCouponBelowMinimum,
		},
		{
			name:   "subtotal exactly at minimum passes",
			mutate: func(b *builder.CouponBuilder) { b.MinimumAmountCents = subtotal },
			now:    builder.BaseTime,
		},
		{
			name:   "item count below minimum",
			mutate: func(b *builder.CouponBuilder) { b.MinimumItems = 3 },
			now:    builder.BaseTime,
			errIs:  coupon.ErrCouponBelowMinimum,
		},
		{
			name: "expired and inactive reports inactive first",
			mutate: func(b *builder.CouponBuilder) {
				b.Active = false
			},
			now:   builder.BaseTime.Add(31 * 24 * time.Hour),
			errIs: coupon.ErrCouponInactive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewCouponBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			c, err := b.BuildDomain()
			require.NoError(t, err)

			err = c.ValidateForCart(tc.now, subtotal, 2)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDiscountCents(t *testing.T) {
	t.Run("fixed discount", func(t *testing.T) {
		c := builder.NewCouponBuilder().MustBuild()
		assert.Equal(t, int64(1_000), c.DiscountCents(10_000))
	})

	t.Run("fixed discount capped at subtotal", func(t *testing.T) {
		c := builder.NewCouponBuilder().MustBuild()
		assert.Equal(t, int64(500), c.DiscountCents(500))
	})

	t.Run("percent discount floors fractional cents", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.DiscountType = coupon.DiscountTypePercent
			b.DiscountValue = 10
		}).MustBuild()

		// 10% of 10005 is 1000.5, floored
		assert.Equal(t, int64(1_000), c.DiscountCents(10_005))
	})

	t.Run("hundred percent empties the cart exactly", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.DiscountType = coupon.DiscountTypePercent
			b.DiscountValue = 100
		}).MustBuild()

		assert.Equal(t, int64(777), c.DiscountCents(777))
	})
}
