package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/internal/app"
	"github.com/kosarica/catalog-service/internal/localization"
	"github.com/kosarica/catalog-service/internal/storefront"
)

var (
	exportStore  string
	exportLang   string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <productId>",
	Short: "Export a product for a storefront",
	Long: `Localize every item of a stored product for a store and language. Items that
are missing facts or localized fields are listed with their errors; the remaining
items are exported.`,
	Example: `  catalog-service export P-100
  catalog-service export P-100 --store novosibirsk --lang en
  catalog-service export P-100 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportStore, "store", "", "Store time zone (default from config)")
	exportCmd.Flags().StringVar(&exportLang, "lang", "", "Language tag (default first supported language)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "table", "Output format: table or json")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	defaultStore, matcher, err := app.Storefront(cfg)
	if err != nil {
		return err
	}
	tz := defaultStore
	if exportStore != "" {
		if tz, err = storefront.ParseTimezone(exportStore); err != nil {
			return err
		}
	}
	lang := matcher.Supported()[0]
	if exportLang != "" {
		if lang, err = matcher.Match(exportLang); err != nil {
			return err
		}
	}

	e, closeEngine, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeEngine()

	result, err := e.ExportProduct(ctx, args[0], tz, lang)
	if err != nil {
		return err
	}

	logger.Info().
		Str("product_id", args[0]).
		Str("outcome", string(result.Outcome)).
		Int("failed_items", len(result.Errors)).
		Msg("Product exported")

	switch strings.ToLower(exportOutput) {
	case "json":
		out := struct {
			Outcome string                                  `json:"outcome"`
			Product *localization.ProductView               `json:"product,omitempty"`
			Errors  map[string][]localization.FullItemError `json:"errors,omitempty"`
		}{Outcome: string(result.Outcome), Errors: result.Errors}
		if result.Value != nil {
			view := result.Value.View()
			out.Product = &view
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "table":
		outputExportTable(args[0], result)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", exportOutput)
	}
}

func outputExportTable(productID string, result localization.ExportResult) {
	fmt.Printf("\nExport of %s: %s\n", productID, result.Outcome)
	fmt.Println(strings.Repeat("-", 60))

	if result.Value != nil {
		view := result.Value.View()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ITEM\tSKU\tPRICE\tSTOCK\tTITLE")
		fmt.Fprintln(w, "----\t---\t-----\t-----\t-----")
		for _, item := range view.Variations {
			price := "-"
			if item.Price.Public != nil {
				price = item.Price.Public.Value.StringFixed(2)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.ItemID, item.Sku, price, item.Stock.Status, item.Seo.Title)
		}
		w.Flush()
	}

	if failed := result.FailedIDs(); len(failed) > 0 {
		fmt.Printf("\n%d items not exported:\n", len(failed))
		for _, id := range failed {
			for _, e := range result.Errors[id] {
				fmt.Printf("  %s: %s\n", id, e.Error())
			}
		}
	}
}
