package cmd

import (
	"fmt"
	"os"

	"github.com/planfacthq/planfact/internal/config"
	"github.com/planfacthq/planfact/internal/importer"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import daily records from a JSONL export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	progress("  Importing %s...\n", args[0])

	result, written, err := importer.Import(s, args[0])
	if err != nil {
		return fmt.Errorf("import failed after %d records: %w", written, err)
	}

	fmt.Printf("  Imported %d record(s)\n", written)
	if result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d malformed line(s) skipped\n", result.ParseErrors)
	}
	return nil
}
