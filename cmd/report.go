package cmd

import (
	"fmt"
	"strings"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/report"
	"github.com/planfacthq/planfact/internal/store"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the plan/fact report for a period",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	owner, err := resolveOwner(cfg)
	if err != nil {
		return err
	}
	period, start, end, ref, err := resolveRange(cfg)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	builder := newBuilder(s, cfg)

	var r *report.Report
	if flagNoCache {
		r, err = builder.Refresh(owner, start, end, ref)
	} else {
		r, err = builder.Build(owner, start, end, ref)
	}
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	metricNames := metricNameIndex(s)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s REPORT  %s", strings.ToUpper(string(period)), cli.FormatDateRange(start, end))))
	fmt.Println()

	if len(r.Summary) == 0 {
		fmt.Printf("  No records for %s in this period.\n", owner)
		fmt.Println("  Log values with: planfact log METRIC=ACTUAL")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(r.Summary))
	for _, id := range r.MetricIDs() {
		summary := r.Summary[id]
		dev := r.DeviationFor(id)
		rows = append(rows, []string{
			metricLabel(metricNames, id),
			cli.FormatValue(summary.Actual),
			cli.FormatValue(summary.Plan),
			cli.FormatCompletion(summary),
			cli.RenderCompletionBar(summary.Actual, summary.Plan, 12),
			cli.ColorDeviation(dev, cli.FormatDeviation(dev)),
		})
	}

	fmt.Print(cli.Table{
		Headers: []string{"Metric", "Actual", "Plan", "Done", "Progress", "Projected"},
		Rows:    rows,
	}.Render())

	fmt.Printf("  Owner %s, %d records, as of %s\n\n", owner, r.Records, cli.FormatDate(ref))
	return nil
}

// metricNameIndex maps metric IDs to display names. A missing catalog
// is fine; reports fall back to raw IDs.
func metricNameIndex(s *store.Store) map[string]string {
	defs, err := s.ListMetrics()
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(defs))
	for _, d := range defs {
		names[d.ID] = d.Name
	}
	return names
}

func metricLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
