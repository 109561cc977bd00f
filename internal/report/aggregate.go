// Package report computes period summaries and deviation projections
// from daily records, with a small bounded result cache.
package report

import (
	"math"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// Aggregate reduces daily records over [start, end] (inclusive on both
// ends) into per-metric plan/actual totals. Records outside the range
// are ignored; a metric never seen in range produces no entry. Totals
// are rounded to the nearest integer.
func Aggregate(records []model.DailyRecord, start, end time.Time) map[string]model.MetricSummary {
	totals := make(map[string]model.MetricSummary)

	// A reversed range simply matches nothing; no error surface here.
	for _, rec := range FilterByDate(records, start, end) {
		for metricID, v := range rec.Values {
			sum := totals[metricID]
			sum.Plan += numeric(v.Plan)
			sum.Actual += numeric(v.Actual)
			totals[metricID] = sum
		}
	}

	for metricID, sum := range totals {
		sum.Plan = math.Round(sum.Plan)
		sum.Actual = math.Round(sum.Actual)
		totals[metricID] = sum
	}

	return totals
}

// FilterByDate returns records whose date falls within [start, end],
// comparing at day granularity.
func FilterByDate(records []model.DailyRecord, start, end time.Time) []model.DailyRecord {
	first := model.Day(start)
	last := model.Day(end)

	var result []model.DailyRecord
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		day := model.Day(rec.Date)
		if day.Before(first) || day.After(last) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

// numeric maps NaN and infinities to zero so malformed values
// contribute nothing instead of poisoning a total.
func numeric(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
