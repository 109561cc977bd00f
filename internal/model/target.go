package model

import "time"

// PlanPeriod is the validity horizon of a plan target.
type PlanPeriod string

const (
	// UntilWeekEnd targets run through the end of the ISO week (Sunday).
	UntilWeekEnd PlanPeriod = "week"
	// UntilMonthEnd targets run through the last calendar day of the month.
	UntilMonthEnd PlanPeriod = "month"
)

// Valid reports whether p is a known plan period.
func (p PlanPeriod) Valid() bool {
	return p == UntilWeekEnd || p == UntilMonthEnd
}

// Target statuses. Only active targets participate in projections.
const (
	TargetActive   = "active"
	TargetArchived = "archived"
)

// PlanTarget is the intended value for a metric over a stated period.
// The app expects at most one active target per (metric, owner); the
// store does not enforce it, the report builder just takes the first.
type PlanTarget struct {
	MetricID  string
	OwnerID   string
	Target    float64
	Period    PlanPeriod
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

// Active reports whether the target should drive projections on the given day.
func (t PlanTarget) Active(ref time.Time) bool {
	if t.Status != TargetActive {
		return false
	}
	day := Day(ref)
	if !t.StartDate.IsZero() && day.Before(Day(t.StartDate)) {
		return false
	}
	if !t.EndDate.IsZero() && day.After(Day(t.EndDate)) {
		return false
	}
	return true
}
