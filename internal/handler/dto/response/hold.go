package response

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/google/uuid"

	"resbook/internal/usecase/queries"
)

type HoldResponse struct {
	ID         uuid.UUID `json:"id"`
	ResourceID uuid.UUID `json:"resourceId"`
	UserID     uuid.UUID `json:"userId"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromHoldView(v *queries.HoldView) *HoldResponse {
	var resp HoldResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromHoldViews(views []*queries.HoldView) []*HoldResponse {
	resps := make([]*HoldResponse, len(views))
	for i, v := range views {
		resps[i] = FromHoldView(v)
	}
	return resps
}
