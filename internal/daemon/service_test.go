package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/report"
)

// memStore is an in-memory Store stub.
type memStore struct {
	owners    []string
	records   map[string][]model.DailyRecord
	saved     []model.PeriodSummary
	saveErr   error
	ownersErr error
}

func (m *memStore) ListOwners() ([]string, error) {
	if m.ownersErr != nil {
		return nil, m.ownersErr
	}
	return m.owners, nil
}

func (m *memStore) FetchDailyRecords(ownerID string, start, end time.Time) ([]model.DailyRecord, error) {
	return m.records[ownerID], nil
}

func (m *memStore) FetchPlanTargets(ownerID string) ([]model.PlanTarget, error) {
	return nil, nil
}

func (m *memStore) SavePeriodSummary(summary model.PeriodSummary) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, summary)
	return nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func fixedNow(t *testing.T, s string) func() time.Time {
	t.Helper()
	now := mustDate(t, s)
	return func() time.Time { return now }
}

func TestSnapshotWindows(t *testing.T) {
	// Wednesday 2024-01-10.
	windows := snapshotWindows(mustDate(t, "2024-01-10"))
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want week + month", len(windows))
	}

	week, month := windows[0], windows[1]
	if week.start.Format(model.DateFormat) != "2024-01-08" || week.end.Format(model.DateFormat) != "2024-01-14" {
		t.Fatalf("week window = %s..%s", week.start, week.end)
	}
	if month.start.Day() != 1 || month.end.Day() != 31 {
		t.Fatalf("month window = %s..%s", month.start, month.end)
	}
}

func TestRunOnceWritesSummaries(t *testing.T) {
	store := &memStore{
		owners: []string{"u1"},
		records: map[string][]model.DailyRecord{
			"u1": {{
				OwnerID: "u1",
				Date:    mustDate(t, "2024-01-10"),
				Values:  map[string]model.MetricValue{"m1": {Plan: 10, Actual: 8}},
			}},
		},
	}
	s := New(Config{
		Calendar: report.DefaultCalendar(),
		Now:      fixedNow(t, "2024-01-10"),
	}, store)

	s.runOnce()

	// One week summary and one month summary.
	if len(store.saved) != 2 {
		t.Fatalf("saved %d summaries, want 2", len(store.saved))
	}
	for _, snap := range store.saved {
		if snap.Metrics["m1"].Actual != 8 {
			t.Fatalf("summary m1 = %+v, want Actual 8", snap.Metrics["m1"])
		}
	}

	st := s.status()
	if st.RunCount != 1 || st.LastRun.Written != 2 || st.LastError != "" {
		t.Fatalf("status = %+v", st)
	}
}

func TestRunOnceSkipsEmptyWindows(t *testing.T) {
	store := &memStore{owners: []string{"idle"}}
	s := New(Config{
		Calendar: report.DefaultCalendar(),
		Now:      fixedNow(t, "2024-01-10"),
	}, store)

	s.runOnce()

	if len(store.saved) != 0 {
		t.Fatalf("saved %d summaries for an owner with no records, want 0", len(store.saved))
	}
	if st := s.status(); st.LastRun.Failures != 0 {
		t.Fatalf("failures = %d, want 0", st.LastRun.Failures)
	}
}

func TestRunOnceRecordsFailures(t *testing.T) {
	store := &memStore{
		owners: []string{"u1"},
		records: map[string][]model.DailyRecord{
			"u1": {{
				OwnerID: "u1",
				Date:    mustDate(t, "2024-01-10"),
				Values:  map[string]model.MetricValue{"m1": {Actual: 1}},
			}},
		},
		saveErr: errors.New("disk full"),
	}
	s := New(Config{
		Calendar: report.DefaultCalendar(),
		Now:      fixedNow(t, "2024-01-10"),
	}, store)

	s.runOnce()

	st := s.status()
	if st.LastRun.Failures != 2 {
		t.Fatalf("failures = %d, want 2 (week and month)", st.LastRun.Failures)
	}
	if st.LastError == "" {
		t.Fatal("last error not recorded")
	}
}

func TestRunOnceListOwnersError(t *testing.T) {
	store := &memStore{ownersErr: errors.New("store down")}
	s := New(Config{
		Calendar: report.DefaultCalendar(),
		Now:      fixedNow(t, "2024-01-10"),
	}, store)

	s.runOnce()
	s.runOnce()

	st := s.status()
	if st.RunCount != 2 {
		t.Fatalf("run count = %d, want 2", st.RunCount)
	}
	if st.LastError == "" {
		t.Fatal("expected last error after owners failure")
	}
}
