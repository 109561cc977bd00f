package cli

import (
	"testing"

	"github.com/planfacthq/planfact/internal/model"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{20, "20"},
		{13.5, "13.5"},
		{-4, "-4"},
		{1234567, "1,234,567"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Fatalf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDeviation(t *testing.T) {
	if got := FormatDeviation(nil); got != "—" {
		t.Fatalf("nil deviation = %q, want dash", got)
	}

	over := 12.5
	if got := FormatDeviation(&over); got != "+12.5%" {
		t.Fatalf("positive deviation = %q", got)
	}

	under := -33.3
	if got := FormatDeviation(&under); got != "-33.3%" {
		t.Fatalf("negative deviation = %q", got)
	}
}

func TestFormatCompletion(t *testing.T) {
	if got := FormatCompletion(model.MetricSummary{Plan: 0, Actual: 5}); got != "—" {
		t.Fatalf("zero-plan completion = %q, want dash", got)
	}
	if got := FormatCompletion(model.MetricSummary{Plan: 20, Actual: 15}); got != "75%" {
		t.Fatalf("completion = %q, want 75%%", got)
	}
}
