package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/planfacthq/planfact/internal/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to planfact!")
	fmt.Println()

	// 1. Default owner
	fmt.Println("  1. Default owner")
	fmt.Println("     The owner whose records commands use when --owner is omitted.")
	if cfg.General.DefaultOwner != "" {
		fmt.Printf("     Current: %s\n", cfg.General.DefaultOwner)
	}
	fmt.Print("     > ")
	owner, _ := reader.ReadString('\n')
	owner = strings.TrimSpace(owner)
	if owner != "" {
		cfg.General.DefaultOwner = owner
	}
	fmt.Println()

	// 2. Default report period
	fmt.Println("  2. Default report period")
	fmt.Println("     (1) day")
	fmt.Println("     (2) week [default]")
	fmt.Println("     (3) month")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	switch choice {
	case "1":
		cfg.General.DefaultPeriod = "day"
	case "3":
		cfg.General.DefaultPeriod = "month"
	default:
		cfg.General.DefaultPeriod = "week"
	}
	fmt.Println()

	// 3. Billing API key
	fmt.Println("  3. Billing API key (optional)")
	fmt.Println("     For subscription status and upgrades. Find it at planfact.app/account.")
	existing := config.GetBillingAPIKey(cfg)
	if existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		cfg.Billing.APIKey = apiKey
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	themeChoice = strings.TrimSpace(themeChoice)
	switch themeChoice {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `planfact setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
