package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive     = errors.New("coupon is inactive")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponBelowMinimum = errors.New("cart does not meet coupon minimum")
)

// Coupon is a discount rule evaluated against a cart subtotal. Usage
// recording is external bookkeeping; the entity only decides validity and
// the exact discount amount.
type Coupon struct {
	id                 uuid.UUID
	code               Code
	discount           Discount
	minimumAmountCents int64
	minimumItems       int
	validUntil         *time.Time
	active             bool
	createdAt          time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	discount Discount,
	minimumAmountCents int64,
	minimumItems int,
	validUntil *time.Time,
	active bool,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:                 id,
		code:               couponCode,
		discount:           discount,
		minimumAmountCents: minimumAmountCents,
		minimumItems:       minimumItems,
		validUntil:         validUntil,
		active:             active,
	}, nil
}

// ValidateForCart runs the validation chain in order, short-circuiting on
// the first failure: active, not expired, subtotal minimum, item minimum.
// Existence is checked by the caller before the entity exists.
func (c *Coupon) ValidateForCart(now time.Time, subtotalCents int64, itemCount int) error {
	if !c.active {
		return ErrCouponInactive
	}
	if c.validUntil != nil && now.After(*c.validUntil) {
		return ErrCouponExpired
	}
	if subtotalCents < c.minimumAmountCents {
		return ErrCouponBelowMinimum
	}
	if itemCount < c.minimumItems {
		return ErrCouponBelowMinimum
	}
	return nil
}

// DiscountCents returns the exact discount for the subtotal, never
// exceeding it.
func (c *Coupon) DiscountCents(subtotalCents int64) int64 {
	return c.discount.AmountFor(subtotalCents)
}

func (c *Coupon) ID() uuid.UUID             { return c.id }
func (c *Coupon) Code() Code                { return c.code }
func (c *Coupon) Discount() Discount        { return c.discount }
func (c *Coupon) MinimumAmountCents() int64 { return c.minimumAmountCents }
func (c *Coupon) MinimumItems() int         { return c.minimumItems }
func (c *Coupon) ValidUntil() *time.Time    { return c.validUntil }
func (c *Coupon) IsActive() bool            { return c.active }
func (c *Coupon) CreatedAt() time.Time      { return c.createdAt }
