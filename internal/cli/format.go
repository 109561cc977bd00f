// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// FormatValue formats a metric value, dropping a trailing ".0".
// e.g., 20 -> "20", 13.5 -> "13.5", 1234567 -> "1,234,567"
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return FormatNumber(int64(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDeviation formats a signed projected deviation percentage.
// nil renders as a dash: no target means no projection, not zero.
func FormatDeviation(dev *float64) string {
	if dev == nil {
		return "—"
	}
	if *dev >= 0 {
		return fmt.Sprintf("+%.1f%%", *dev)
	}
	return fmt.Sprintf("%.1f%%", *dev)
}

// FormatPlanActual renders an "actual / plan" pair.
func FormatPlanActual(v model.MetricSummary) string {
	return FormatValue(v.Actual) + " / " + FormatValue(v.Plan)
}

// FormatCompletion formats actual-vs-plan as a percentage, or a dash
// when the plan is zero.
func FormatCompletion(v model.MetricSummary) string {
	if v.Plan == 0 {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", v.Actual/v.Plan*100)
}

// FormatDate renders a day as an ISO date.
func FormatDate(t time.Time) string {
	return t.Format(model.DateFormat)
}

// FormatDateRange renders an inclusive date range.
func FormatDateRange(start, end time.Time) string {
	if model.SameDay(start, end) {
		return FormatDate(start)
	}
	return FormatDate(start) + " .. " + FormatDate(end)
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(t time.Time) string {
	return t.Format("Mon")
}
