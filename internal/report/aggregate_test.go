package report

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func record(t *testing.T, owner, date string, values map[string]model.MetricValue) model.DailyRecord {
	t.Helper()
	return model.DailyRecord{OwnerID: owner, Date: mustDate(t, date), Values: values}
}

func TestAggregateSimpleScenario(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-01", map[string]model.MetricValue{
			"m1": {Plan: 10, Actual: 8},
		}),
		record(t, "u1", "2024-01-02", map[string]model.MetricValue{
			"m1": {Plan: 10, Actual: 12},
		}),
	}

	got := Aggregate(records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-02"))

	want := map[string]model.MetricSummary{
		"m1": {Plan: 20, Actual: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Aggregate = %+v, want %+v", got, want)
	}
}

func TestAggregateRangeBoundariesInclusive(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-01", map[string]model.MetricValue{"m1": {Actual: 1}}),
		record(t, "u1", "2024-01-05", map[string]model.MetricValue{"m1": {Actual: 1}}),
		record(t, "u1", "2023-12-31", map[string]model.MetricValue{"m1": {Actual: 100}}),
		record(t, "u1", "2024-01-06", map[string]model.MetricValue{"m1": {Actual: 100}}),
	}

	got := Aggregate(records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-05"))

	if got["m1"].Actual != 2 {
		t.Fatalf("m1 actual = %v, want 2 (boundary days in, outside days out)", got["m1"].Actual)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-02", map[string]model.MetricValue{
			"m1": {Plan: 3.4, Actual: 2.6},
			"m2": {Plan: 1, Actual: 9},
		}),
	}
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31")

	first := Aggregate(records, start, end)
	second := Aggregate(records, start, end)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated aggregation differs: %+v vs %+v", first, second)
	}
}

func TestAggregateAbsentMetricProducesNoEntry(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-01", map[string]model.MetricValue{"m1": {Actual: 5}}),
	}

	got := Aggregate(records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-01"))

	if _, ok := got["m2"]; ok {
		t.Fatal("metric m2 present in output despite never appearing in records")
	}
	if len(got) != 1 {
		t.Fatalf("output has %d metrics, want 1", len(got))
	}
}

func TestAggregateEmptyRange(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-02-15", map[string]model.MetricValue{"m1": {Actual: 5}}),
	}

	got := Aggregate(records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	if len(got) != 0 {
		t.Fatalf("expected empty map for out-of-range records, got %+v", got)
	}

	// Reversed range matches nothing rather than erroring.
	got = Aggregate(records, mustDate(t, "2024-03-01"), mustDate(t, "2024-01-01"))
	if len(got) != 0 {
		t.Fatalf("expected empty map for reversed range, got %+v", got)
	}
}

func TestAggregateNonNumericContributesZero(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-01", map[string]model.MetricValue{
			"m1": {Plan: math.NaN(), Actual: math.Inf(1)},
		}),
		record(t, "u1", "2024-01-02", map[string]model.MetricValue{
			"m1": {Plan: 7, Actual: 3},
		}),
	}

	got := Aggregate(records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-02"))

	if got["m1"].Plan != 7 || got["m1"].Actual != 3 {
		t.Fatalf("m1 = %+v, want {Plan:7 Actual:3} (NaN/Inf contribute zero)", got["m1"])
	}
}

func TestAggregateRoundsTotals(t *testing.T) {
	records := []model.DailyRecord{
		record(t, "u1", "2024-01-01", map[string]model.MetricValue{"m1": {Plan: 1.3, Actual: 1.2}}),
		record(t, "u1", "2024-01-02", map[string]model.MetricValue{"m1": {Plan: 1.3, Actual: 1.2}}),
	}

	got := Aggregate(records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-02"))

	if got["m1"].Plan != 3 {
		t.Fatalf("plan total = %v, want 3 (2.6 rounded)", got["m1"].Plan)
	}
	if got["m1"].Actual != 2 {
		t.Fatalf("actual total = %v, want 2 (2.4 rounded)", got["m1"].Actual)
	}
}
