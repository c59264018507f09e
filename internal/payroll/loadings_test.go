package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	engine := NewEngine(nil)

	// 2026-01-12 is a Monday.
	monday := func(hour int) time.Time {
		return time.Date(2026, 1, 12, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name          string
		start         time.Time
		publicHoliday bool
		want          RateCategory
	}{
		{"weekday morning", monday(9), false, CategoryWeekday},
		{"weekday last ordinary hour", monday(17), false, CategoryWeekday},
		{"evening starts at 18", monday(18), false, CategoryWeekdayEvening},
		{"night starts at 20", monday(20), false, CategoryWeekdayNight},
		{"early morning is night", monday(5), false, CategoryWeekdayNight},
		{"six am is ordinary", monday(6), false, CategoryWeekday},
		{"saturday", time.Date(2026, 1, 17, 9, 0, 0, 0, time.UTC), false, CategorySaturday},
		{"sunday", time.Date(2026, 1, 18, 9, 0, 0, 0, time.UTC), false, CategorySunday},
		{"saturday night stays saturday", time.Date(2026, 1, 17, 22, 0, 0, 0, time.UTC), false, CategorySaturday},
		{"public holiday beats weekend", time.Date(2026, 1, 18, 9, 0, 0, 0, time.UTC), true, CategoryPublicHoliday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Classify(tt.start, tt.publicHoliday))
		})
	}
}

func TestResolve(t *testing.T) {
	engine := NewEngine(DefaultLoadings())
	monday := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)

	t.Run("weekday keeps the base rate", func(t *testing.T) {
		rate := engine.Resolve(31.25, monday, false)
		assert.Equal(t, CategoryWeekday, rate.Category)
		assert.Equal(t, 31.25, rate.HourlyRate)
	})

	t.Run("rounds to the cent", func(t *testing.T) {
		rate := engine.Resolve(31.25, monday.Add(9*time.Hour), false)
		assert.Equal(t, CategoryWeekdayEvening, rate.Category)
		assert.Equal(t, 1.125, rate.Multiplier)
		// 31.25 * 1.125 = 35.15625, rounded to 35.16.
		assert.Equal(t, 35.16, rate.HourlyRate)
	})

	t.Run("public holiday applies the top multiplier", func(t *testing.T) {
		rate := engine.Resolve(30.0, monday, true)
		assert.Equal(t, 75.0, rate.HourlyRate)
	})
}
