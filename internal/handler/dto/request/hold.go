package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateHoldRequest struct {
	ResourceID uuid.UUID `json:"resource_id" binding:"required"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Quantity   int       `json:"quantity" binding:"omitempty,min=1"`
}

// NormalizedQuantity defaults an omitted quantity to a single unit.
func (r CreateHoldRequest) NormalizedQuantity() int {
	if r.Quantity < 1 {
		return 1
	}
	return r.Quantity
}
