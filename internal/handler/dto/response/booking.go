package response

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/google/uuid"

	"resbook/internal/usecase/commands"
	"resbook/internal/usecase/queries"
)

type BookingResponse struct {
	ID         uuid.UUID  `json:"id"`
	ResourceID uuid.UUID  `json:"resourceId"`
	UserID     uuid.UUID  `json:"userId"`
	StartsAt   time.Time  `json:"startsAt"`
	EndsAt     time.Time  `json:"endsAt"`
	Quantity   int        `json:"quantity"`
	Status     string     `json:"status"`
	PriceCents int64      `json:"priceCents"`
	CouponID   *uuid.UUID `json:"couponId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type CommitResponse struct {
	Bookings      []*BookingResponse `json:"bookings"`
	SubtotalCents int64              `json:"subtotalCents"`
	DiscountCents int64              `json:"discountCents"`
	TotalCents    int64              `json:"totalCents"`
	Replayed      bool               `json:"replayed"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	resps := make([]*BookingResponse, len(views))
	for i, v := range views {
		resps[i] = FromBookingView(v)
	}
	return resps
}

func FromCommitResult(r *commands.CommitResult) *CommitResponse {
	return &CommitResponse{
		Bookings:      FromBookingViews(r.Bookings),
		SubtotalCents: r.SubtotalCents,
		DiscountCents: r.DiscountCents,
		TotalCents:    r.TotalCents,
		Replayed:      r.IsReplayed,
	}
}
