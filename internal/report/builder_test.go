package report

import (
	"errors"
	"testing"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// countingStore is a RecordStore stub that counts fetches.
type countingStore struct {
	records     []model.DailyRecord
	targets     []model.PlanTarget
	recordCalls int
	targetCalls int
	recordsErr  error
	targetsErr  error
}

func (s *countingStore) FetchDailyRecords(ownerID string, start, end time.Time) ([]model.DailyRecord, error) {
	s.recordCalls++
	if s.recordsErr != nil {
		return nil, s.recordsErr
	}
	return s.records, nil
}

func (s *countingStore) FetchPlanTargets(ownerID string) ([]model.PlanTarget, error) {
	s.targetCalls++
	if s.targetsErr != nil {
		return nil, s.targetsErr
	}
	return s.targets, nil
}

func weekTarget(owner, metric string, target float64) model.PlanTarget {
	return model.PlanTarget{
		MetricID: metric,
		OwnerID:  owner,
		Target:   target,
		Period:   model.UntilWeekEnd,
		Status:   model.TargetActive,
	}
}

func TestBuildComputesSummaryAndProjection(t *testing.T) {
	// Week of 2024-01-08, viewed on Wednesday the 10th.
	store := &countingStore{
		records: []model.DailyRecord{
			record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Plan: 20, Actual: 15}}),
			record(t, "u1", "2024-01-09", map[string]model.MetricValue{"m1": {Plan: 20, Actual: 10}}),
			record(t, "u1", "2024-01-10", map[string]model.MetricValue{"m1": {Plan: 20, Actual: 15}}),
		},
		targets: []model.PlanTarget{weekTarget("u1", "m1", 100)},
	}
	b := NewBuilder(store, DefaultCalendar(), 0)

	start, end := mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14")
	r, err := b.Build("u1", start, end, mustDate(t, "2024-01-10"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if r.Summary["m1"].Actual != 40 {
		t.Fatalf("m1 actual = %v, want 40", r.Summary["m1"].Actual)
	}

	dev := r.DeviationFor("m1")
	wantDeviation(t, dev, -33.3)

	if r.DeviationFor("m2") != nil {
		t.Fatal("deviation present for a metric with no target")
	}
}

func TestBuildServesRepeatFromCache(t *testing.T) {
	store := &countingStore{
		records: []model.DailyRecord{
			record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 5}}),
		},
	}
	b := NewBuilder(store, DefaultCalendar(), 0)
	start, end, ref := mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14"), mustDate(t, "2024-01-10")

	first, err := b.Build("u1", start, end, ref)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := b.Build("u1", start, end, ref)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if store.recordCalls != 1 {
		t.Fatalf("store fetched %d times, want 1 (second call cached)", store.recordCalls)
	}
	if first != second {
		t.Fatal("cached call returned a different report")
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	store := &countingStore{}
	b := NewBuilder(store, DefaultCalendar(), 0)
	start, end, ref := mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14"), mustDate(t, "2024-01-10")

	if _, err := b.Build("u1", start, end, ref); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := b.Refresh("u1", start, end, ref); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if store.recordCalls != 2 {
		t.Fatalf("store fetched %d times, want 2 (refresh bypasses cache)", store.recordCalls)
	}
}

func TestBuildFetchFailureNotCached(t *testing.T) {
	store := &countingStore{recordsErr: errors.New("store down")}
	b := NewBuilder(store, DefaultCalendar(), 0)
	start, end, ref := mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14"), mustDate(t, "2024-01-10")

	if _, err := b.Build("u1", start, end, ref); err == nil {
		t.Fatal("expected fetch error to propagate")
	}

	// Recovery: next call fetches again and succeeds.
	store.recordsErr = nil
	if _, err := b.Build("u1", start, end, ref); err != nil {
		t.Fatalf("Build after recovery: %v", err)
	}
	if store.recordCalls != 2 {
		t.Fatalf("store fetched %d times, want 2 (failure never cached)", store.recordCalls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	store := &countingStore{}
	b := NewBuilder(store, DefaultCalendar(), 0)
	start, end, ref := mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14"), mustDate(t, "2024-01-10")

	if _, err := b.Build("u1", start, end, ref); err != nil {
		t.Fatalf("Build: %v", err)
	}
	b.Invalidate("u1")
	if _, err := b.Build("u1", start, end, ref); err != nil {
		t.Fatalf("Build after invalidate: %v", err)
	}

	if store.recordCalls != 2 {
		t.Fatalf("store fetched %d times, want 2 after invalidation", store.recordCalls)
	}
}

func TestBuildFromRecordsIgnoresInactiveTargets(t *testing.T) {
	b := NewBuilder(&countingStore{}, DefaultCalendar(), 0)
	ref := mustDate(t, "2024-01-10")

	archived := weekTarget("u1", "m1", 100)
	archived.Status = model.TargetArchived
	expired := weekTarget("u1", "m1", 100)
	expired.EndDate = mustDate(t, "2024-01-05")
	otherOwner := weekTarget("u2", "m1", 100)

	records := []model.DailyRecord{
		record(t, "u1", "2024-01-10", map[string]model.MetricValue{"m1": {Actual: 10}}),
	}

	r := b.BuildFromRecords("u1",
		records,
		[]model.PlanTarget{archived, expired, otherOwner},
		mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14"), ref)

	if r.DeviationFor("m1") != nil {
		t.Fatal("inactive targets produced a projection")
	}
}

func TestReportPeriodSummary(t *testing.T) {
	b := NewBuilder(&countingStore{}, DefaultCalendar(), 0)
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-10", map[string]model.MetricValue{"m1": {Plan: 4, Actual: 6}}),
	}
	r := b.BuildFromRecords("u1", records, nil,
		mustDate(t, "2024-01-08"), mustDate(t, "2024-01-14"), mustDate(t, "2024-01-10"))

	now := time.Now()
	snap := r.PeriodSummary(now)

	if snap.OwnerID != "u1" || !snap.CreatedAt.Equal(now) {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Metrics["m1"].Actual != 6 {
		t.Fatalf("snapshot m1 = %+v, want Actual 6", snap.Metrics["m1"])
	}
}
