package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagTargetHorizon string
	flagTargetFrom    string
	flagTargetTo      string
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage plan targets",
	RunE:  runTargetsList,
}

var targetsSetCmd = &cobra.Command{
	Use:   "set METRIC VALUE",
	Short: "Set a plan target for a metric",
	Args:  cobra.ExactArgs(2),
	RunE:  runTargetsSet,
}

var targetsRmCmd = &cobra.Command{
	Use:   "rm METRIC",
	Short: "Remove a plan target",
	Args:  cobra.ExactArgs(1),
	RunE:  runTargetsRm,
}

var targetsArchiveCmd = &cobra.Command{
	Use:   "archive METRIC",
	Short: "Archive a plan target without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTargetsArchive,
}

func init() {
	targetsSetCmd.Flags().StringVar(&flagTargetHorizon, "horizon", "week", "Target horizon: week or month")
	targetsSetCmd.Flags().StringVar(&flagTargetFrom, "from", "", "Validity start (YYYY-MM-DD)")
	targetsSetCmd.Flags().StringVar(&flagTargetTo, "to", "", "Validity end (YYYY-MM-DD)")

	targetsCmd.AddCommand(targetsSetCmd)
	targetsCmd.AddCommand(targetsRmCmd)
	targetsCmd.AddCommand(targetsArchiveCmd)
	rootCmd.AddCommand(targetsCmd)
}

func runTargetsList(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	owner, err := resolveOwner(cfg)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	targets, err := s.FetchPlanTargets(owner)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Printf("\n  No targets for %s. Set one with: planfact targets set METRIC VALUE\n", owner)
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		window := ""
		if !t.StartDate.IsZero() || !t.EndDate.IsZero() {
			window = fmt.Sprintf("%s .. %s", formatOptionalDate(t.StartDate), formatOptionalDate(t.EndDate))
		}
		status := t.Status
		if t.Status == model.TargetActive && !t.Active(now) {
			status = "expired"
		}
		rows = append(rows, []string{
			t.MetricID,
			cli.FormatValue(t.Target),
			string(t.Period),
			window,
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   fmt.Sprintf("Targets for %s", owner),
		Headers: []string{"Metric", "Target", "Horizon", "Window", "Status"},
		Rows:    rows,
	}.Render())
	return nil
}

func runTargetsSet(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	owner, err := resolveOwner(cfg)
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid target value %q", args[1])
	}

	period := model.PlanPeriod(flagTargetHorizon)
	if !period.Valid() {
		return fmt.Errorf("invalid horizon %q: want week or month", flagTargetHorizon)
	}

	t := model.PlanTarget{
		MetricID: args[0],
		OwnerID:  owner,
		Target:   value,
		Period:   period,
		Status:   model.TargetActive,
	}
	if flagTargetFrom != "" {
		from, err := time.Parse(model.DateFormat, flagTargetFrom)
		if err != nil {
			return fmt.Errorf("invalid --from %q: want YYYY-MM-DD", flagTargetFrom)
		}
		t.StartDate = from
	}
	if flagTargetTo != "" {
		to, err := time.Parse(model.DateFormat, flagTargetTo)
		if err != nil {
			return fmt.Errorf("invalid --to %q: want YYYY-MM-DD", flagTargetTo)
		}
		t.EndDate = to
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.SavePlanTarget(t); err != nil {
		return fmt.Errorf("saving target: %w", err)
	}
	fmt.Printf("  Set %s target for %s: %s per %s\n", owner, t.MetricID, cli.FormatValue(value), period)
	return nil
}

func runTargetsRm(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	owner, err := resolveOwner(cfg)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeletePlanTarget(owner, args[0]); err != nil {
		return fmt.Errorf("deleting target: %w", err)
	}
	fmt.Printf("  Removed %s target for %s\n", owner, args[0])
	return nil
}

func runTargetsArchive(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	owner, err := resolveOwner(cfg)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	targets, err := s.FetchPlanTargets(owner)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if t.MetricID != args[0] {
			continue
		}
		t.Status = model.TargetArchived
		if err := s.SavePlanTarget(t); err != nil {
			return fmt.Errorf("archiving target: %w", err)
		}
		fmt.Printf("  Archived %s target for %s\n", owner, t.MetricID)
		return nil
	}
	return fmt.Errorf("no target for metric %q", args[0])
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.Format(model.DateFormat)
}
