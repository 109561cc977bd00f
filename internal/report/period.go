package report

import (
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// Period is a display aggregation window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Valid reports whether p is a known display period.
func (p Period) Valid() bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

// Calendar holds the working-day policy constants used for plan value
// conversion and projections. These are product policy, not calendar
// facts (real months have 20-23 weekdays), so they live in config.
type Calendar struct {
	DaysPerWeek  int // working days counted per week
	DaysPerMonth int // working days counted per month
}

// DefaultCalendar returns the standard 5-day-week policy.
func DefaultCalendar() Calendar {
	return Calendar{DaysPerWeek: 5, DaysPerMonth: 22}
}

// scaleDays returns the number of working days a period spans under
// this policy. The day scale is always 1.
func (c Calendar) scaleDays(p Period) int {
	switch p {
	case PeriodWeek:
		return c.DaysPerWeek
	case PeriodMonth:
		return c.DaysPerMonth
	default:
		return 1
	}
}

// Convert rescales a plan value declared in one period base to another,
// routing through the daily value as the common base. Identity when the
// bases match.
func (c Calendar) Convert(value float64, from, to Period) float64 {
	if from == to {
		return value
	}
	daily := value / float64(c.scaleDays(from))
	return daily * float64(c.scaleDays(to))
}

// WeekBounds returns the Monday and Sunday of the ISO week containing ref.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	day := model.Day(ref)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the week that started 6 days earlier
	}
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last calendar day of ref's month.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, -1)
}

// Bounds returns the date range a display period covers around ref.
func Bounds(p Period, ref time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodWeek:
		return WeekBounds(ref)
	case PeriodMonth:
		return MonthBounds(ref)
	default:
		day := model.Day(ref)
		return day, day
	}
}

// CountWeekdays counts Mon-Fri days in [from, to] inclusive.
func CountWeekdays(from, to time.Time) int {
	first := model.Day(from)
	last := model.Day(to)
	count := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// WorkingDays returns (passed, total) working days for a plan period
// relative to ref.
//
// Week: Mon-Fri map to 1..5 days passed; Saturday counts the week as
// complete, Sunday as not started. Month: weekdays from the 1st through
// ref inclusive, against the weekday count of the whole month.
func (c Calendar) WorkingDays(period model.PlanPeriod, ref time.Time) (passed, total int) {
	switch period {
	case model.UntilWeekEnd:
		total = c.DaysPerWeek
		switch wd := ref.Weekday(); wd {
		case time.Sunday:
			passed = 0
		case time.Saturday:
			passed = total
		default:
			passed = int(wd) - int(time.Monday) + 1
			if passed > total {
				passed = total
			}
		}
		return passed, total

	case model.UntilMonthEnd:
		start, end := MonthBounds(ref)
		return CountWeekdays(start, ref), CountWeekdays(start, end)

	default:
		return 0, 0
	}
}
