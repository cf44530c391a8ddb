package availability

import (
	"errors"
	"time"

	"resbook/internal/domain/reservation"
)

var (
	ErrInvalidQuantity  = errors.New("requested quantity must be at least 1")
	ErrOutsideHours     = errors.New("range falls outside operating hours")
	ErrCapacityExceeded = errors.New("insufficient capacity for requested range")
)

// Entry is one capacity-consuming record overlapping the queried day:
// a pending/confirmed booking or an active, unexpired hold. Callers filter
// expired holds and cancelled bookings before building entries.
type Entry struct {
	Start    time.Time
	End      time.Time
	Quantity int
}

// Slot is one hourly bucket with its computed remaining capacity.
type Slot struct {
	Start             time.Time
	IsAvailable       bool
	AvailableQuantity int
}

// Compute partitions the operating window [open, close) into hourly
// buckets and derives remaining capacity per bucket. A trailing partial
// hour is not bookable and produces no bucket. Boundary-touching entries
// do not occupy a bucket; overlap is strict.
func Compute(capacity, requested int, open, close time.Time, entries []Entry) ([]Slot, error) {
	if requested < 1 {
		return nil, ErrInvalidQuantity
	}

	var slots []Slot
	for start := open; !start.Add(time.Hour).After(close); start = start.Add(time.Hour) {
		end := start.Add(time.Hour)
		available := capacity - occupied(start, end, entries)
		if available < 0 {
			available = 0
		}
		slots = append(slots, Slot{
			Start:             start,
			IsAvailable:       available >= requested,
			AvailableQuantity: available,
		})
	}
	return slots, nil
}

// CheckRange verifies that every hourly bucket covered by the desired
// range is inside operating hours and has capacity for the requested
// quantity. The range is hour-aligned by construction, so its buckets are
// contiguous; a range poking past closing time is rejected as a whole
// rather than partially granted.
func CheckRange(capacity, requested int, tr reservation.TimeRange, open, close time.Time, entries []Entry) error {
	if requested < 1 {
		return ErrInvalidQuantity
	}
	if !tr.Within(open, close) {
		return ErrOutsideHours
	}

	for start := tr.Start(); start.Before(tr.End()); start = start.Add(time.Hour) {
		end := start.Add(time.Hour)
		if capacity-occupied(start, end, entries) < requested {
			return ErrCapacityExceeded
		}
	}
	return nil
}

// VerifyWithinCapacity re-checks the invariant over a committed-plus-held
// entry set that already includes the record under validation: no hourly
// bucket of the range may exceed capacity.
func VerifyWithinCapacity(capacity int, tr reservation.TimeRange, entries []Entry) error {
	for start := tr.Start(); start.Before(tr.End()); start = start.Add(time.Hour) {
		if occupied(start, start.Add(time.Hour), entries) > capacity {
			return ErrCapacityExceeded
		}
	}
	return nil
}

func occupied(bucketStart, bucketEnd time.Time, entries []Entry) int {
	var total int
	for _, e := range entries {
		if e.Start.Before(bucketEnd) && e.End.After(bucketStart) {
			total += e.Quantity
		}
	}
	return total
}
