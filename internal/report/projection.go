package report

import (
	"math"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// Project computes the projected end-of-period deviation percentage for
// a metric: the accumulated actual is extrapolated at its per-working-day
// average over the days remaining, then compared against the plan.
//
// Returns nil when plan, actual, or period is missing — a projection
// needs all three. Never returns an error for numeric inputs; division
// by zero is branched away explicitly.
func (c Calendar) Project(plan, actual *float64, period model.PlanPeriod, ref time.Time) *float64 {
	if plan == nil || actual == nil || !period.Valid() {
		return nil
	}

	// A zero plan with any actual reads as 100% over. Product policy
	// carried over from the original behavior, not a mathematical fact.
	if *plan == 0 {
		if *actual == 0 {
			return ptr(0)
		}
		return ptr(100)
	}

	passed, total := c.WorkingDays(period, ref)
	if passed == 0 || total == 0 {
		// Period not started (or degenerate): simple deviation only.
		return ptr(round1((*actual - *plan) / *plan * 100))
	}

	dailyAverage := *actual / float64(passed)
	remaining := float64(total - passed)
	projected := dailyAverage*remaining + *actual

	return ptr(round1((projected - *plan) / *plan * 100))
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptr(v float64) *float64 {
	return &v
}
