package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/internal/report"
	"github.com/kosarica/catalog-service/internal/storefront"
)

var (
	reportOutput string
	reportStore  string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a price report workbook",
	Long: `Resolve the current price of every stored item in a store and write the
result as an XLSX workbook, including the lowest price of the last 30 days.`,
	Example: `  catalog-service report --output prices.xlsx
  catalog-service report --output prices.xlsx --store yekaterinburg`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportOutput, "output", "", "Output file (required)")
	reportCmd.Flags().StringVar(&reportStore, "store", string(storefront.Moscow), "Store time zone")
	reportCmd.MarkFlagRequired("output")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tz, err := storefront.ParseTimezone(reportStore)
	if err != nil {
		return err
	}

	e, closeEngine, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeEngine()

	rows, err := report.Collect(ctx, e, time.Now(), tz)
	if err != nil {
		return err
	}

	f, err := os.Create(reportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", reportOutput, err)
	}
	defer f.Close()

	if err := report.WriteXLSX(f, rows); err != nil {
		return err
	}

	logger.Info().Str("file", reportOutput).Int("rows", len(rows)).Msg("Price report written")
	return nil
}
