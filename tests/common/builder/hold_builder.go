//go:build unit

package builder

import (
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/reservation"
)

// Monday 2026-03-02, inside business hours.
var BaseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type HoldBuilder struct {
	ResourceID uuid.UUID
	UserID     uuid.UUID
	Start      time.Time
	End        time.Time
	Quantity   int
	Now        time.Time
	TTL        time.Duration
}

func NewHoldBuilder() *HoldBuilder {
	return &HoldBuilder{
		ResourceID: uuid.New(),
		UserID:     uuid.New(),
		Start:      BaseTime.Add(time.Hour),
		End:        BaseTime.Add(3 * time.Hour),
		Quantity:   1,
		Now:        BaseTime,
		TTL:        15 * time.Minute,
	}
}

func (b *HoldBuilder) With(mutate func(*HoldBuilder)) *HoldBuilder {
	mutate(b)
	return b
}

func (b *HoldBuilder) BuildDomain() (*reservation.Hold, error) {
	tr, err := reservation.NewTimeRange(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return reservation.NewHold(b.ResourceID, b.UserID, tr, b.Quantity, b.Now, b.TTL)
}

func (b *HoldBuilder) MustBuild() *reservation.Hold {
	h, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return h
}
