package response

import (
	"time"

	"resbook/internal/domain/availability"
)

type SlotResponse struct {
	Start             time.Time `json:"start"`
	IsAvailable       bool      `json:"isAvailable"`
	AvailableQuantity int       `json:"availableQuantity"`
}

type AvailabilityResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func FromSlots(slots []availability.Slot) *AvailabilityResponse {
	resp := &AvailabilityResponse{Slots: make([]SlotResponse, len(slots))}
	for i, s := range slots {
		resp.Slots[i] = SlotResponse{
			Start:             s.Start,
			IsAvailable:       s.IsAvailable,
			AvailableQuantity: s.AvailableQuantity,
		}
	}
	return resp
}
