//go:build unit

package builder

import (
	"time"

	"github.com/google/uuid"

	"resbook/internal/domain/resource"
)

type ResourceBuilder struct {
	ID              uuid.UUID
	BranchID        uuid.UUID
	Name            string
	Kind            resource.Kind
	Capacity        int
	HourlyRateCents int64
	Schedule        resource.WeeklySchedule
	Active          bool
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:              uuid.New(),
		BranchID:        uuid.New(),
		Name:            "Projector",
		Kind:            resource.KindEquipment,
		Capacity:        5,
		HourlyRateCents: 2_000,
		Schedule:        NineToSixSchedule(),
		Active:          true,
	}
}

func (b *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(b)
	return b
}

func (b *ResourceBuilder) BuildDomain() (*resource.Resource, error) {
	return resource.NewResource(b.ID, b.BranchID, b.Name, b.Kind, b.Capacity, b.HourlyRateCents, b.Schedule, b.Active)
}

// NineToSixSchedule opens Monday through Friday, 09:00 to 18:00.
func NineToSixSchedule() resource.WeeklySchedule {
	hours, _ := resource.NewDayHours(9*60, 18*60)
	return resource.WeeklySchedule{
		time.Monday:    hours,
		time.Tuesday:   hours,
		time.Wednesday: hours,
		time.Thursday:  hours,
		time.Friday:    hours,
	}
}
