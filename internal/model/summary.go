package model

import "time"

// MetricSummary holds accumulated plan/actual totals for one metric.
type MetricSummary struct {
	Plan   float64
	Actual float64
}

// PeriodSummary is a derived snapshot of an owner's totals over a date
// range. It is recomputed on demand from daily records; a persisted copy
// is a cached artifact, never a source of truth.
type PeriodSummary struct {
	OwnerID   string
	StartDate time.Time
	EndDate   time.Time
	Metrics   map[string]MetricSummary
	CreatedAt time.Time
}
