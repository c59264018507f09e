// Package payroll computes shift loadings for payroll export. Like the
// compliance requirement composition, the engine is a pure, total function
// over its inputs: classification never errors and every shift lands in
// exactly one rate category.
package payroll

import (
	"math"
	"time"
)

// RateCategory is the penalty-rate band a shift start falls into.
type RateCategory string

const (
	CategoryWeekday        RateCategory = "weekday"
	CategoryWeekdayEvening RateCategory = "weekday_evening"
	CategoryWeekdayNight   RateCategory = "weekday_night"
	CategorySaturday       RateCategory = "saturday"
	CategorySunday         RateCategory = "sunday"
	CategoryPublicHoliday  RateCategory = "public_holiday"
)

// Loadings maps each rate category to its multiplier over the base rate.
type Loadings map[RateCategory]float64

// DefaultLoadings are the award multipliers applied to the base hourly rate.
func DefaultLoadings() Loadings {
	return Loadings{
		CategoryWeekday:        1.0,
		CategoryWeekdayEvening: 1.125,
		CategoryWeekdayNight:   1.15,
		CategorySaturday:       1.5,
		CategorySunday:         2.0,
		CategoryPublicHoliday:  2.5,
	}
}

// Engine resolves shift loadings.
type Engine struct {
	loadings Loadings
}

func NewEngine(loadings Loadings) *Engine {
	if loadings == nil {
		loadings = DefaultLoadings()
	}
	return &Engine{loadings: loadings}
}

// Classify places a shift start into its rate category. Public holiday beats
// everything; weekends beat time-of-day bands.
func (e *Engine) Classify(shiftStart time.Time, publicHoliday bool) RateCategory {
	if publicHoliday {
		return CategoryPublicHoliday
	}

	switch shiftStart.Weekday() {
	case time.Saturday:
		return CategorySaturday
	case time.Sunday:
		return CategorySunday
	}

	hour := shiftStart.Hour()
	switch {
	case hour >= 20 || hour < 6:
		return CategoryWeekdayNight
	case hour >= 18:
		return CategoryWeekdayEvening
	default:
		return CategoryWeekday
	}
}

// Rate is the resolved pay rate for one shift.
type Rate struct {
	Category   RateCategory
	Multiplier float64
	HourlyRate float64
}

// Resolve computes the loaded hourly rate, rounded to the cent.
func (e *Engine) Resolve(baseRate float64, shiftStart time.Time, publicHoliday bool) Rate {
	category := e.Classify(shiftStart, publicHoliday)
	multiplier := e.loadings[category]
	return Rate{
		Category:   category,
		Multiplier: multiplier,
		HourlyRate: math.Round(baseRate*multiplier*100) / 100,
	}
}
