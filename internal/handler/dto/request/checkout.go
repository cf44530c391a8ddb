package request

import (
	"strings"

	"github.com/google/uuid"
)

type CommitCheckoutRequest struct {
	HoldIDs    []uuid.UUID `json:"hold_ids" binding:"required,min=1"`
	CouponCode *string     `json:"coupon_code,omitempty"`
}

func (r CommitCheckoutRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type BookingTransitionRequest struct {
	BookingIDs []uuid.UUID `json:"booking_ids" binding:"required,min=1"`
}
