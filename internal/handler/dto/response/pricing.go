package response

import (
	"github.com/google/uuid"

	"resbook/internal/usecase/queries"
)

type PriceCartResponse struct {
	SubtotalCents int64      `json:"subtotalCents"`
	DiscountCents int64      `json:"discountCents"`
	TotalCents    int64      `json:"totalCents"`
	ItemCount     int        `json:"itemCount"`
	LineTotals    []int64    `json:"lineTotals"`
	CouponID      *uuid.UUID `json:"couponId,omitempty"`
}

type CouponValidationResponse struct {
	CouponID      uuid.UUID `json:"couponId"`
	DiscountCents int64     `json:"discountCents"`
}

func FromPriceCartResult(r *queries.PriceCartResult) *PriceCartResponse {
	return &PriceCartResponse{
		SubtotalCents: r.SubtotalCents,
		DiscountCents: r.DiscountCents,
		TotalCents:    r.TotalCents,
		ItemCount:     r.ItemCount,
		LineTotals:    r.LineTotals,
		CouponID:      r.CouponID,
	}
}

func FromCouponResult(r *queries.CouponResult) *CouponValidationResponse {
	return &CouponValidationResponse{
		CouponID:      r.CouponID,
		DiscountCents: r.DiscountCents,
	}
}
