package report

import (
	"math"
	"testing"

	"github.com/planfacthq/planfact/internal/model"
)

func wantDeviation(t *testing.T, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("deviation = nil, want %v", want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Fatalf("deviation = %v, want %v", *got, want)
	}
}

func TestProjectNilContract(t *testing.T) {
	cal := DefaultCalendar()
	ref := mustDate(t, "2024-01-10")

	if got := cal.Project(nil, ptr(10), model.UntilWeekEnd, ref); got != nil {
		t.Fatalf("missing plan: got %v, want nil", *got)
	}
	if got := cal.Project(ptr(10), nil, model.UntilWeekEnd, ref); got != nil {
		t.Fatalf("missing actual: got %v, want nil", *got)
	}
	if got := cal.Project(ptr(10), ptr(5), "", ref); got != nil {
		t.Fatalf("missing period: got %v, want nil", *got)
	}
}

func TestProjectZeroPlanPolicy(t *testing.T) {
	cal := DefaultCalendar()
	ref := mustDate(t, "2024-01-10")

	wantDeviation(t, cal.Project(ptr(0), ptr(0), model.UntilWeekEnd, ref), 0)
	wantDeviation(t, cal.Project(ptr(0), ptr(5), model.UntilWeekEnd, ref), 100)
}

func TestProjectMidWeek(t *testing.T) {
	cal := DefaultCalendar()
	// Wednesday: 3 of 5 working days passed. 40 accumulated projects to
	// 40/3*2 + 40 = 66.67, deviating -33.3% from a plan of 100.
	wed := mustDate(t, "2024-01-10")

	wantDeviation(t, cal.Project(ptr(100), ptr(40), model.UntilWeekEnd, wed), -33.3)
}

func TestProjectWeekendEdges(t *testing.T) {
	cal := DefaultCalendar()

	// Sunday: zero days passed, falls back to simple deviation.
	sun := mustDate(t, "2024-01-14")
	wantDeviation(t, cal.Project(ptr(50), ptr(0), model.UntilWeekEnd, sun), -100)

	// Saturday: week treated as complete; nothing left to project, so
	// the deviation is the plain actual-vs-plan ratio.
	sat := mustDate(t, "2024-01-13")
	wantDeviation(t, cal.Project(ptr(50), ptr(40), model.UntilWeekEnd, sat), -20)
}

func TestProjectMonth(t *testing.T) {
	cal := DefaultCalendar()
	// Jan 10 2024: 8 of 23 weekdays passed. 80 accumulated at 10/day
	// projects to 80 + 10*15 = 230 against a plan of 230: on target.
	ref := mustDate(t, "2024-01-10")

	wantDeviation(t, cal.Project(ptr(230), ptr(80), model.UntilMonthEnd, ref), 0)
}

func TestProjectRoundsToOneDecimal(t *testing.T) {
	cal := DefaultCalendar()
	// Monday, one day passed: 7 projects to 35 against 90:
	// (35-90)/90*100 = -61.111... -> -61.1
	mon := mustDate(t, "2024-01-08")

	wantDeviation(t, cal.Project(ptr(90), ptr(7), model.UntilWeekEnd, mon), -61.1)
}

func TestRound1HalfAwayFromZero(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{33.35, 33.4},
		{-33.35, -33.4},
		{12.04, 12.0},
		{-0.05, -0.1},
	}
	for _, tc := range cases {
		if got := round1(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
