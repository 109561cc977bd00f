package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/model"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log METRIC=ACTUAL [METRIC=PLAN/ACTUAL ...]",
	Short: "Log metric values for a day",
	Long: `Log actual (and optionally plan) values for one or more metrics.

  planfact log sales=12            actual only
  planfact log sales=15/12         plan and actual
  planfact log sales=12 calls=40   several metrics at once

Values land on today unless --date is given. Logging a metric again
for the same day overwrites its previous value.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()

	owner, err := resolveOwner(cfg)
	if err != nil {
		return err
	}
	_, _, _, ref, err := resolveRange(cfg)
	if err != nil {
		return err
	}

	entries, err := parseAssignments(args)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	// Merge into the day's existing record so logging one metric does
	// not wipe the others.
	rec := model.DailyRecord{OwnerID: owner, Date: ref, Values: map[string]model.MetricValue{}}
	existing, err := s.FetchDailyRecords(owner, ref, ref)
	if err != nil {
		return fmt.Errorf("loading existing record: %w", err)
	}
	if len(existing) > 0 {
		rec = existing[0]
	}

	for id, e := range entries {
		v := rec.Values[id]
		v.Actual = e.actual
		if e.hasPlan {
			v.Plan = e.plan
		}
		rec.Values[id] = v
	}

	if err := s.SaveDailyRecord(rec); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}

	fmt.Printf("  Logged %d metric(s) for %s on %s\n", len(entries), owner, cli.FormatDate(ref))
	return nil
}

type logEntry struct {
	plan    float64
	actual  float64
	hasPlan bool
}

// parseAssignments parses METRIC=ACTUAL and METRIC=PLAN/ACTUAL args.
// A metric repeated on the command line keeps its last assignment.
func parseAssignments(args []string) (map[string]logEntry, error) {
	entries := make(map[string]logEntry, len(args))
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" || value == "" {
			return nil, fmt.Errorf("invalid assignment %q: want METRIC=ACTUAL or METRIC=PLAN/ACTUAL", arg)
		}

		var e logEntry
		if planStr, actualStr, split := strings.Cut(value, "/"); split {
			plan, err := strconv.ParseFloat(planStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid plan value in %q", arg)
			}
			actual, err := strconv.ParseFloat(actualStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid actual value in %q", arg)
			}
			e = logEntry{plan: plan, actual: actual, hasPlan: true}
		} else {
			actual, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value in %q", arg)
			}
			e = logEntry{actual: actual}
		}
		entries[id] = e
	}
	return entries, nil
}
