package resource

import (
	"errors"
	"time"
)

var (
	ErrClosed          = errors.New("closed on this weekday")
	ErrInvalidDayHours = errors.New("open time must be before close time")
)

const minutesPerDay = 24 * 60

// DayHours is one weekday's operating window expressed as minutes from
// midnight, half-open [Open, Close).
type DayHours struct {
	OpenMin  int
	CloseMin int
}

func NewDayHours(openMin, closeMin int) (DayHours, error) {
	if openMin < 0 || closeMin > minutesPerDay || openMin >= closeMin {
		return DayHours{}, ErrInvalidDayHours
	}
	return DayHours{OpenMin: openMin, CloseMin: closeMin}, nil
}

// WeeklySchedule maps weekdays to operating windows. A missing weekday
// means the resource is closed that day.
type WeeklySchedule map[time.Weekday]DayHours

// HoursOn anchors the weekday's window to the given calendar date, in the
// date's location. Pure; the only failure mode is a closed weekday.
func (s WeeklySchedule) HoursOn(date time.Time) (time.Time, time.Time, error) {
	hours, ok := s[date.Weekday()]
	if !ok {
		return time.Time{}, time.Time{}, ErrClosed
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	open := midnight.Add(time.Duration(hours.OpenMin) * time.Minute)
	close := midnight.Add(time.Duration(hours.CloseMin) * time.Minute)
	return open, close, nil
}

func (s WeeklySchedule) IsOpenOn(weekday time.Weekday) bool {
	_, ok := s[weekday]
	return ok
}
