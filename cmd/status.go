package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planfacthq/planfact/internal/billing"
	"github.com/planfacthq/planfact/internal/cli"
	"github.com/planfacthq/planfact/internal/config"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show subscription status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	apiKey := config.GetBillingAPIKey(cfg)
	if apiKey == "" {
		fmt.Println()
		fmt.Println("  No billing API key configured.")
		fmt.Println()
		fmt.Println("  Configure it with:")
		fmt.Println("    planfact setup                                  (interactive)")
		fmt.Println("    PLANFACT_BILLING_KEY=pf_sk_... planfact status  (one-shot)")
		fmt.Println()
		return nil
	}

	client := billing.NewClient(apiKey, cfg.Billing.BaseURL)
	if client == nil {
		return errors.New("invalid billing API key format (expected pf_sk_... prefix)")
	}

	progress("  Fetching subscription...\n")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sub, err := client.FetchSubscription(ctx)
	if err != nil {
		if errors.Is(err, billing.ErrUnauthorized) {
			return errors.New("billing API key rejected — check it at https://planfact.app/account")
		}
		if errors.Is(err, billing.ErrRateLimited) {
			return errors.New("rate limited by billing API — try again in a minute")
		}
		return fmt.Errorf("fetching subscription: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUBSCRIPTION"))
	fmt.Println()

	rows := [][]string{
		{"Plan", sub.Plan},
		{"Status", sub.Status},
		{"Seats", fmt.Sprintf("%d", sub.Seats)},
		{"Price", fmt.Sprintf("$%.2f/mo", sub.PriceMonth)},
	}
	if !sub.RenewsAt.IsZero() {
		rows = append(rows, []string{"Renews", sub.RenewsAt.Format("2006-01-02")})
	}

	fmt.Print(cli.Table{
		Headers: []string{"Setting", "Value"},
		Rows:    rows,
	}.Render())
	return nil
}
