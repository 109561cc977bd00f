package cmd

import "testing"

func TestParseAssignments(t *testing.T) {
	entries, err := parseAssignments([]string{"sales=12", "calls=40/35.5"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	sales := entries["sales"]
	if sales.actual != 12 || sales.hasPlan {
		t.Fatalf("sales = %+v, want actual-only 12", sales)
	}

	calls := entries["calls"]
	if !calls.hasPlan || calls.plan != 40 || calls.actual != 35.5 {
		t.Fatalf("calls = %+v, want plan 40 actual 35.5", calls)
	}
}

func TestParseAssignmentsLastWins(t *testing.T) {
	entries, err := parseAssignments([]string{"sales=12", "sales=14"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 1 || entries["sales"].actual != 14 {
		t.Fatalf("entries = %+v, want single sales=14", entries)
	}
}

func TestParseAssignmentsRejectsMalformed(t *testing.T) {
	bad := []string{
		"sales",
		"sales=",
		"=12",
		"sales=abc",
		"sales=x/12",
		"sales=12/y",
	}
	for _, arg := range bad {
		if _, err := parseAssignments([]string{arg}); err == nil {
			t.Errorf("parseAssignments(%q) accepted malformed input", arg)
		}
	}
}
