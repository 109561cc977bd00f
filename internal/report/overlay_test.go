package report

import (
	"testing"

	"github.com/planfacthq/planfact/internal/model"
)

func TestOverlayPendingInvisible(t *testing.T) {
	o := NewOverlay()
	base := []model.DailyRecord{
		record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 5}}),
	}

	o.Stage(record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 99}}))

	merged := o.Apply(base)
	if merged[0].Values["m1"].Actual != 5 {
		t.Fatalf("pending write leaked into aggregation input: %+v", merged[0])
	}
	if !o.InFlight("u1", mustDate(t, "2024-01-08")) {
		t.Fatal("staged write not reported in flight")
	}
}

func TestOverlayConfirmedReplacesBase(t *testing.T) {
	o := NewOverlay()
	base := []model.DailyRecord{
		record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 5}}),
	}

	o.Stage(record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 99}}))
	o.Confirm("u1", mustDate(t, "2024-01-08"))

	merged := o.Apply(base)
	if len(merged) != 1 {
		t.Fatalf("merged %d records, want 1 (replacement, not append)", len(merged))
	}
	if merged[0].Values["m1"].Actual != 99 {
		t.Fatalf("confirmed write not applied: %+v", merged[0])
	}
}

func TestOverlayConfirmedNewDayAppends(t *testing.T) {
	o := NewOverlay()

	o.Stage(record(t, "u1", "2024-01-09", map[string]model.MetricValue{"m1": {Actual: 7}}))
	o.Confirm("u1", mustDate(t, "2024-01-09"))

	merged := o.Apply(nil)
	if len(merged) != 1 || merged[0].Values["m1"].Actual != 7 {
		t.Fatalf("merged = %+v, want the confirmed new-day record", merged)
	}
}

func TestOverlayRollbackDiscards(t *testing.T) {
	o := NewOverlay()
	base := []model.DailyRecord{
		record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 5}}),
	}

	o.Stage(record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 99}}))
	o.Rollback("u1", mustDate(t, "2024-01-08"))

	merged := o.Apply(base)
	if merged[0].Values["m1"].Actual != 5 {
		t.Fatalf("rolled-back write applied: %+v", merged[0])
	}
	if o.InFlight("u1", mustDate(t, "2024-01-08")) {
		t.Fatal("rolled-back write still in flight")
	}
}

func TestOverlayLastWriteWins(t *testing.T) {
	o := NewOverlay()

	o.Stage(record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 1}}))
	o.Stage(record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 2}}))
	o.Confirm("u1", mustDate(t, "2024-01-08"))

	merged := o.Apply(nil)
	if merged[0].Values["m1"].Actual != 2 {
		t.Fatalf("re-staged value lost: %+v", merged[0])
	}
}

func TestOverlayPrune(t *testing.T) {
	o := NewOverlay()

	o.Stage(record(t, "u1", "2024-01-08", map[string]model.MetricValue{"m1": {Actual: 1}}))
	o.Stage(record(t, "u1", "2024-01-09", map[string]model.MetricValue{"m1": {Actual: 2}}))
	o.Confirm("u1", mustDate(t, "2024-01-08"))
	o.Prune()

	if len(o.Apply(nil)) != 0 {
		t.Fatal("pruned overlay still applies settled writes")
	}
	if !o.InFlight("u1", mustDate(t, "2024-01-09")) {
		t.Fatal("prune dropped a pending write")
	}
}
