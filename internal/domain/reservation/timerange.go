package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrNotHourAligned   = errors.New("time range must be aligned to whole hours")
	ErrCrossesMidnight  = errors.New("time range must fall within a single day")
)

// TimeRange is a half-open [start, end) reservation window aligned to whole
// hours, the booking granularity for every resource. Ranges never cross
// midnight because operating hours are defined per weekday.
type TimeRange struct {
	start time.Time
	end   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	if !hourAligned(start) || !hourAligned(end) {
		return TimeRange{}, ErrNotHourAligned
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Add(-time.Nanosecond).Date()
	if sy != ey || sm != em || sd != ed {
		return TimeRange{}, ErrCrossesMidnight
	}
	return TimeRange{start: start, end: end}, nil
}

func (tr TimeRange) Start() time.Time { return tr.start }
func (tr TimeRange) End() time.Time   { return tr.end }

func (tr TimeRange) Duration() time.Duration {
	return tr.end.Sub(tr.start)
}

func (tr TimeRange) Hours() int {
	return int(tr.Duration() / time.Hour)
}

// Overlaps reports strict interval overlap; ranges that merely touch at a
// boundary do not overlap.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.start.Before(other.end) && tr.end.After(other.start)
}

// Within reports whether the range fits inside the half-open window
// [open, close).
func (tr TimeRange) Within(open, close time.Time) bool {
	return !tr.start.Before(open) && !tr.end.After(close)
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("[%s,%s)", tr.start.Format(time.RFC3339), tr.end.Format(time.RFC3339))
}

func hourAligned(t time.Time) bool {
	return t.Truncate(time.Hour).Equal(t)
}
