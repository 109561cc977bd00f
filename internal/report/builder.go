package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// RecordStore is the data-access contract the builder consumes. The
// production implementation is internal/store; tests use stubs.
type RecordStore interface {
	FetchDailyRecords(ownerID string, start, end time.Time) ([]model.DailyRecord, error)
	FetchPlanTargets(ownerID string) ([]model.PlanTarget, error)
}

// Report is a computed period summary with optional projections.
type Report struct {
	OwnerID string
	Start   time.Time
	End     time.Time

	// Summary maps metric ID to accumulated plan/actual totals for
	// every metric seen at least once in range.
	Summary map[string]model.MetricSummary

	// Deviation maps metric ID to the projected end-of-period deviation
	// percent. A metric is absent when no active target covers it.
	Deviation map[string]float64

	// Targets maps metric ID to the active target driving its projection.
	Targets map[string]model.PlanTarget

	Records int // size of the input record set
}

// MetricIDs returns the summary's metric IDs in stable order.
func (r *Report) MetricIDs() []string {
	ids := make([]string, 0, len(r.Summary))
	for id := range r.Summary {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DeviationFor returns the projected deviation for a metric, or nil
// when no projection exists. Render layers show a dash for nil.
func (r *Report) DeviationFor(metricID string) *float64 {
	if d, ok := r.Deviation[metricID]; ok {
		return &d
	}
	return nil
}

// Builder orchestrates fetch, aggregation, projection, and caching.
type Builder struct {
	store RecordStore
	cal   Calendar
	cache *Cache
}

// NewBuilder returns a builder over the given store with the given
// working-day policy. cacheEntries <= 0 selects the default cap.
func NewBuilder(store RecordStore, cal Calendar, cacheEntries int) *Builder {
	return &Builder{
		store: store,
		cal:   cal,
		cache: NewCache(cacheEntries),
	}
}

// Build fetches an owner's records and targets and computes the report
// for [start, end], with ref as the projection reference date. Repeat
// calls for an unchanged request are served from the cache without
// touching the store.
func (b *Builder) Build(ownerID string, start, end, ref time.Time) (*Report, error) {
	if cached := b.cache.Lookup(ownerID, start, end); cached != nil {
		return cached, nil
	}
	return b.Refresh(ownerID, start, end, ref)
}

// Refresh bypasses the cache, recomputes, and repopulates it.
func (b *Builder) Refresh(ownerID string, start, end, ref time.Time) (*Report, error) {
	records, err := b.store.FetchDailyRecords(ownerID, start, end)
	if err != nil {
		// Fetch failures are never cached; stale entries for other
		// keys stay untouched.
		return nil, fmt.Errorf("fetching records for %s: %w", ownerID, err)
	}

	targets, err := b.store.FetchPlanTargets(ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching targets for %s: %w", ownerID, err)
	}

	r := b.BuildFromRecords(ownerID, records, targets, start, end, ref)
	b.cache.Put(NewKey(ownerID, start, end, r.Records), r)
	return r, nil
}

// BuildFromRecords computes a report from already-fetched data. It is a
// pure function of its inputs and performs no I/O.
func (b *Builder) BuildFromRecords(ownerID string, records []model.DailyRecord, targets []model.PlanTarget, start, end, ref time.Time) *Report {
	r := &Report{
		OwnerID:   ownerID,
		Start:     model.Day(start),
		End:       model.Day(end),
		Summary:   Aggregate(records, start, end),
		Deviation: make(map[string]float64),
		Targets:   make(map[string]model.PlanTarget),
		Records:   len(records),
	}

	for _, t := range targets {
		if t.OwnerID != ownerID || !t.Active(ref) {
			continue
		}
		sum, ok := r.Summary[t.MetricID]
		if !ok {
			continue
		}
		if _, taken := r.Targets[t.MetricID]; taken {
			continue // first active target wins
		}

		if dev := b.cal.Project(&t.Target, &sum.Actual, t.Period, ref); dev != nil {
			r.Deviation[t.MetricID] = *dev
			r.Targets[t.MetricID] = t
		}
	}

	return r
}

// Invalidate drops cached reports for an owner. Write paths call this
// so edits are visible on the next build.
func (b *Builder) Invalidate(ownerID string) {
	b.cache.InvalidateOwner(ownerID)
}

// InvalidateAll empties the report cache.
func (b *Builder) InvalidateAll() {
	b.cache.InvalidateAll()
}

// PeriodSummary converts a report into a persistable period snapshot.
func (r *Report) PeriodSummary(now time.Time) model.PeriodSummary {
	metrics := make(map[string]model.MetricSummary, len(r.Summary))
	for id, sum := range r.Summary {
		metrics[id] = sum
	}
	return model.PeriodSummary{
		OwnerID:   r.OwnerID,
		StartDate: r.Start,
		EndDate:   r.End,
		Metrics:   metrics,
		CreatedAt: now,
	}
}
