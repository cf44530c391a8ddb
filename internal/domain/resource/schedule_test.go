//go:build unit

package resource_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resbook/internal/domain/resource"
	"resbook/tests/common/builder"
)

func TestNewDayHours(t *testing.T) {
	cases := []struct {
		name     string
		openMin  int
		closeMin int
		wantErr  bool
	}{
		{"nine to six", 9 * 60, 18 * 60, false},
		{"full day", 0, 24 * 60, false},
		{"open equals close", 600, 600, true},
		{"open after close", 700, 600, true},
		{"negative open", -1, 600, true},
		{"close past midnight", 600, 24*60 + 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resource.NewDayHours(tc.openMin, tc.closeMin)
			if tc.wantErr {
				assert.ErrorIs(t, err, resource.ErrInvalidDayHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHoursOn(t *testing.T) {
	schedule := builder.NineToSixSchedule()

	t.Run("open weekday anchors window to the date", func(t *testing.T) {
		monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

		open, close, err := schedule.HoursOn(monday)
		require.NoError(t, err)
		assert.Equal(t, monday.Add(9*time.Hour), open)
		assert.Equal(t, monday.Add(18*time.Hour), close)
	})

	t.Run("missing weekday means closed", func(t *testing.T) {
		sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		_, _, err := schedule.HoursOn(sunday)
		assert.ErrorIs(t, err, resource.ErrClosed)
	})
}

func TestNewResource(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		r, err := builder.NewResourceBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, resource.KindEquipment, r.Kind())
		assert.Equal(t, 5, r.Capacity())
		assert.True(t, r.IsActive())
	})

	cases := []struct {
		name   string
		mutate func(*builder.ResourceBuilder)
		errIs  error
	}{
		{
			name:   "empty name",
			mutate: func(b *builder.ResourceBuilder) { b.Name = "  " },
			errIs:  resource.ErrEmptyResourceName,
		},
		{
			name:   "invalid kind",
			mutate: func(b *builder.ResourceBuilder) { b.Kind = "warehouse" },
			errIs:  resource.ErrInvalidKind,
		},
		{
			name:   "zero capacity",
			mutate: func(b *builder.ResourceBuilder) { b.Capacity = 0 },
			errIs:  resource.ErrInvalidCapacity,
		},
		{
			name: "room capacity above one",
			mutate: func(b *builder.ResourceBuilder) {
				b.Kind = resource.KindRoom
				b.Capacity = 2
			},
			errIs: resource.ErrRoomCapacity,
		},
		{
			name: "room with capacity one",
			mutate: func(b *builder.ResourceBuilder) {
				b.Kind = resource.KindRoom
				b.Capacity = 1
			},
		},
		{
			name:   "negative hourly rate",
			mutate: func(b *builder.ResourceBuilder) { b.HourlyRateCents = -1 },
			errIs:  resource.ErrNegativeRate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.NewResourceBuilder().With(tc.mutate).BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
