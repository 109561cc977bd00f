package cmd

import (
	"fmt"

	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/model"

	"github.com/spf13/cobra"
)

var objectivesCmd = &cobra.Command{
	Use:   "objectives",
	Short: "Manage objectives",
	RunE:  runObjectivesList,
}

var objectivesAddCmd = &cobra.Command{
	Use:   "add ID NAME",
	Short: "Add or update an objective",
	Args:  cobra.ExactArgs(2),
	RunE:  runObjectivesAdd,
}

var objectivesRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove an objective",
	Args:  cobra.ExactArgs(1),
	RunE:  runObjectivesRm,
}

func init() {
	objectivesCmd.AddCommand(objectivesAddCmd)
	objectivesCmd.AddCommand(objectivesRmCmd)
	rootCmd.AddCommand(objectivesCmd)
}

func runObjectivesList(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	objectives, err := s.ListObjectives()
	if err != nil {
		return err
	}
	if len(objectives) == 0 {
		fmt.Println("\n  No objectives defined. Add one with: planfact objectives add ID NAME")
		return nil
	}

	// Count metrics per objective for the listing.
	metrics, _ := s.ListMetrics()
	counts := make(map[string]int, len(objectives))
	for _, m := range metrics {
		counts[m.ObjectiveID]++
	}

	rows := make([][]string, 0, len(objectives))
	for _, o := range objectives {
		rows = append(rows, []string{o.ID, o.Name, fmt.Sprintf("%d", counts[o.ID])})
	}

	fmt.Println()
	fmt.Print(cli.Table{
		Title:   "Objectives",
		Headers: []string{"ID", "Name", "Metrics"},
		Rows:    rows,
	}.Render())
	return nil
}

func runObjectivesAdd(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	o := model.Objective{ID: args[0], Name: args[1]}
	if err := s.SaveObjective(o); err != nil {
		return fmt.Errorf("saving objective: %w", err)
	}
	fmt.Printf("  Saved objective %s (%s)\n", o.ID, o.Name)
	return nil
}

func runObjectivesRm(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteObjective(args[0]); err != nil {
		return fmt.Errorf("deleting objective: %w", err)
	}
	fmt.Printf("  Removed objective %s\n", args[0])
	return nil
}
