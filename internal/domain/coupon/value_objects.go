package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrInvalidDiscountType    = errors.New("discount must be either fixed amount or percentage")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountTypeFixed   DiscountType = "fixed"
	DiscountTypePercent DiscountType = "percent"
)

type Discount struct {
	amountOffCents *int64
	percentOff     *float64
}

func NewFixedDiscount(amountOffCents int64) (Discount, error) {
	if amountOffCents < 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{amountOffCents: &amountOffCents}, nil
}

func NewPercentageDiscount(percentOff float64) (Discount, error) {
	if percentOff < 0 || percentOff > 100 {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{percentOff: &percentOff}, nil
}

// NewDiscount builds a discount from its persisted representation.
func NewDiscount(discountType DiscountType, value float64) (Discount, error) {
	switch discountType {
	case DiscountTypeFixed:
		return NewFixedDiscount(int64(value))
	case DiscountTypePercent:
		return NewPercentageDiscount(value)
	default:
		return Discount{}, ErrInvalidDiscountType
	}
}

func (d Discount) IsPercentage() bool {
	return d.percentOff != nil
}

func (d Discount) Type() DiscountType {
	if d.IsPercentage() {
		return DiscountTypePercent
	}
	return DiscountTypeFixed
}

func (d Discount) AmountOffCents() int64 {
	if d.amountOffCents != nil {
		return *d.amountOffCents
	}
	return 0
}

func (d Discount) PercentOff() float64 {
	if d.percentOff != nil {
		return *d.percentOff
	}
	return 0
}

// AmountFor computes the discount for a subtotal, capped at the subtotal
// so an order total never goes negative.
func (d Discount) AmountFor(subtotalCents int64) int64 {
	var amount int64
	if d.IsPercentage() {
		amount = int64(float64(subtotalCents) * d.PercentOff() / 100.0)
	} else {
		amount = d.AmountOffCents()
	}
	if amount > subtotalCents {
		return subtotalCents
	}
	return amount
}
