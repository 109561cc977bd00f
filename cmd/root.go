package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/report"
	"github.com/planfacthq/planfact/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagOwner   string
	flagPeriod  string
	flagDate    string
	flagDBPath  string
	flagNoCache bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "planfact",
	Short: "Plan/fact performance tracking CLI",
	Long:  "Log daily metric values, set plan targets, and track projected deviation.",
	RunE:  runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOwner, "owner", "o", "", "Owner whose records to use (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Report period: day, week, month")
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Reference date (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Recompute the report even when cached")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// openStore opens the SQLite store using the flag, config, or default path.
func openStore(cfg config.Config) (*store.Store, error) {
	path := flagDBPath
	if path == "" {
		path = cfg.General.DBPath
	}
	if path == "" {
		path = store.DefaultDBPath()
	}
	return store.Open(path)
}

// newBuilder constructs a report builder with the configured
// working-day policy.
func newBuilder(s *store.Store, cfg config.Config) *report.Builder {
	cal := report.Calendar{
		DaysPerWeek:  cfg.Report.WorkingDaysPerWeek,
		DaysPerMonth: cfg.Report.WorkingDaysPerMonth,
	}
	if cal.DaysPerWeek <= 0 || cal.DaysPerMonth <= 0 {
		cal = report.DefaultCalendar()
	}
	return report.NewBuilder(s, cal, cfg.Report.CacheEntries)
}

// resolveOwner picks the owner from the flag or the config default.
func resolveOwner(cfg config.Config) (string, error) {
	if flagOwner != "" {
		return flagOwner, nil
	}
	if cfg.General.DefaultOwner != "" {
		return cfg.General.DefaultOwner, nil
	}
	return "", fmt.Errorf("no owner given: pass --owner or set default_owner in %s", config.Path())
}

// resolveRange turns the period and date flags into a concrete report
// window and reference date.
func resolveRange(cfg config.Config) (report.Period, time.Time, time.Time, time.Time, error) {
	ref := time.Now()
	if flagDate != "" {
		parsed, err := time.Parse(model.DateFormat, flagDate)
		if err != nil {
			return "", time.Time{}, time.Time{}, time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagDate)
		}
		ref = parsed
	}
	ref = model.Day(ref)

	period := report.Period(flagPeriod)
	if flagPeriod == "" {
		period = report.Period(cfg.General.DefaultPeriod)
	}
	if period == "" {
		period = report.PeriodWeek
	}
	if !period.Valid() {
		return "", time.Time{}, time.Time{}, time.Time{}, fmt.Errorf("invalid period %q: want day, week, or month", period)
	}

	start, end := report.Bounds(period, ref)
	return period, start, end, ref, nil
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
