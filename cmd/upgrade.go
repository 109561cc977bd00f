package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planfacthq/planfact/internal/billing"
	"github.com/planfacthq/planfact/internal/config"

	"github.com/spf13/cobra"
)

var flagUpgradePlan string

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Start a subscription upgrade checkout",
	RunE:  runUpgrade,
}

func init() {
	upgradeCmd.Flags().StringVar(&flagUpgradePlan, "plan", "team", "Plan to upgrade to")
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	apiKey := config.GetBillingAPIKey(cfg)
	if apiKey == "" {
		return errors.New("no billing API key configured — run `planfact setup` first")
	}

	client := billing.NewClient(apiKey, cfg.Billing.BaseURL)
	if client == nil {
		return errors.New("invalid billing API key format (expected pf_sk_... prefix)")
	}

	progress("  Creating checkout session...\n")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := client.CreateCheckoutSession(ctx, flagUpgradePlan)
	if err != nil {
		if errors.Is(err, billing.ErrUnauthorized) {
			return errors.New("billing API key rejected — check it at https://planfact.app/account")
		}
		return fmt.Errorf("creating checkout session: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Checkout session for the %s plan:\n", session.Plan)
	fmt.Println()
	fmt.Printf("    %s\n", session.URL)
	fmt.Println()
	if !session.ExpiresAt.IsZero() {
		fmt.Printf("  Link expires %s\n", session.ExpiresAt.Local().Format("3:04 PM"))
	}
	return nil
}
