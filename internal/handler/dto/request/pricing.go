package request

import (
	"strings"
)

type CartLineRequest struct {
	Kind           string `json:"kind" binding:"required,oneof=room equipment product"`
	RateCents      int64  `json:"rate_cents,omitempty"`
	DurationHours  int    `json:"duration_hours,omitempty"`
	UnitPriceCents int64  `json:"unit_price_cents,omitempty"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
}

type PriceCartRequest struct {
	Lines      []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
	CouponCode *string           `json:"coupon_code,omitempty"`
}

func (r PriceCartRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
