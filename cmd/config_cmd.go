// Package cmd implements the planfact CLI commands.
package cmd

import (
	"fmt"

	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default owner:  %s\n", orNotSet(cfg.General.DefaultOwner))
	fmt.Printf("    Default period: %s\n", cfg.General.DefaultPeriod)
	dbPath := cfg.General.DBPath
	if dbPath == "" {
		dbPath = store.DefaultDBPath()
	}
	fmt.Printf("    Database:       %s\n", dbPath)
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Working days/week:  %d\n", cfg.Report.WorkingDaysPerWeek)
	fmt.Printf("    Working days/month: %d\n", cfg.Report.WorkingDaysPerMonth)
	fmt.Printf("    Cache entries:      %d\n", cfg.Report.CacheEntries)
	fmt.Println()

	fmt.Println("  [Billing]")
	apiKey := config.GetBillingAPIKey(cfg)
	if apiKey != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(apiKey))
	} else {
		fmt.Println("    API key: not configured")
	}
	if cfg.Billing.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.Billing.BaseURL)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `planfact setup` to reconfigure.")
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}
