package cmd

import (
	"fmt"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/model"

	"github.com/spf13/cobra"
)

var flagMetricObjective string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Manage the metric catalog",
	RunE:  runMetricsList,
}

var metricsAddCmd = &cobra.Command{
	Use:   "add ID NAME [DESCRIPTION]",
	Short: "Add or update a metric",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runMetricsAdd,
}

var metricsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a metric",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetricsRm,
}

func init() {
	metricsAddCmd.Flags().StringVar(&flagMetricObjective, "objective", "", "Objective this metric belongs to")

	metricsCmd.AddCommand(metricsAddCmd)
	metricsCmd.AddCommand(metricsRmCmd)
	rootCmd.AddCommand(metricsCmd)
}

func runMetricsList(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	metrics, err := s.ListMetrics()
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		fmt.Println("\n  No metrics defined. Add one with: planfact metrics add ID NAME")
		return nil
	}

	objectives, _ := s.ListObjectives()
	objNames := make(map[string]string, len(objectives))
	for _, o := range objectives {
		objNames[o.ID] = o.Name
	}

	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		obj := ""
		if m.ObjectiveID != "" {
			obj = m.ObjectiveID
			if name, ok := objNames[m.ObjectiveID]; ok {
				obj = name
			}
		}
		rows = append(rows, []string{m.ID, m.Name, obj, m.Description})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   "Metrics",
		Headers: []string{"ID", "Name", "Objective", "Description"},
		Rows:    rows,
	}.Render())
	return nil
}

func runMetricsAdd(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	m := model.MetricDefinition{
		ID:          args[0],
		Name:        args[1],
		ObjectiveID: flagMetricObjective,
	}
	if len(args) == 3 {
		m.Description = args[2]
	}

	if err := s.SaveMetric(m); err != nil {
		return fmt.Errorf("saving metric: %w", err)
	}
	fmt.Printf("  Saved metric %s (%s)\n", m.ID, m.Name)
	return nil
}

func runMetricsRm(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteMetric(args[0]); err != nil {
		return fmt.Errorf("deleting metric: %w", err)
	}
	fmt.Printf("  Removed metric %s\n", args[0])
	return nil
}
