// Package model defines domain types for planfact records, metrics, and targets.
package model

import "time"

// DateFormat is the ISO calendar date layout used everywhere a date
// crosses a package boundary (store, importer, CLI flags).
const DateFormat = "2006-01-02"

// MetricValue is one day's plan/actual pair for a single metric.
type MetricValue struct {
	Plan   float64
	Actual float64
}

// DailyRecord is one owner's entry for one calendar day.
// At most one record exists per (owner, date); writes are upserts.
type DailyRecord struct {
	OwnerID string
	Date    time.Time // day granularity, time component ignored
	Values  map[string]MetricValue
}

// Day truncates a timestamp to day granularity in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
