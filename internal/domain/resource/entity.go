package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidCapacity     = errors.New("capacity must be at least 1")
	ErrRoomCapacity        = errors.New("room capacity is fixed at 1")
	ErrNegativeRate        = errors.New("hourly rate cannot be negative")
	ErrInvalidKind         = errors.New("invalid resource kind")
)

const MaxResourceNameLength = 255

type Kind string

const (
	KindRoom      Kind = "room"
	KindEquipment Kind = "equipment"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindRoom, KindEquipment:
		return true
	default:
		return false
	}
}

// Resource is a bookable room or a group of interchangeable equipment units.
// It is owned by the external catalog; this core reads it and never mutates it.
type Resource struct {
	id              uuid.UUID
	branchID        uuid.UUID
	name            string
	kind            Kind
	capacity        int
	hourlyRateCents int64
	schedule        WeeklySchedule
	active          bool
}

func NewResource(
	id, branchID uuid.UUID,
	name string,
	kind Kind,
	capacity int,
	hourlyRateCents int64,
	schedule WeeklySchedule,
	active bool,
) (*Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return nil, ErrResourceNameTooLong
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if kind == KindRoom && capacity != 1 {
		return nil, ErrRoomCapacity
	}
	if hourlyRateCents < 0 {
		return nil, ErrNegativeRate
	}

	return &Resource{
		id:              id,
		branchID:        branchID,
		name:            name,
		kind:            kind,
		capacity:        capacity,
		hourlyRateCents: hourlyRateCents,
		schedule:        schedule,
		active:          active,
	}, nil
}

// HoursOn resolves the operating window for the given calendar date.
// Returns ErrClosed when no schedule entry exists for that weekday.
func (r *Resource) HoursOn(date time.Time) (time.Time, time.Time, error) {
	return r.schedule.HoursOn(date)
}

func (r *Resource) ID() uuid.UUID            { return r.id }
func (r *Resource) BranchID() uuid.UUID      { return r.branchID }
func (r *Resource) Name() string             { return r.name }
func (r *Resource) Kind() Kind               { return r.kind }
func (r *Resource) Capacity() int            { return r.capacity }
func (r *Resource) HourlyRateCents() int64   { return r.hourlyRateCents }
func (r *Resource) Schedule() WeeklySchedule { return r.schedule }
func (r *Resource) IsActive() bool           { return r.active }
