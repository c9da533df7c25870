package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/storefront"
)

var (
	priceStore  string
	priceAt     string
	priceOutput string
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price <pool.json>",
	Short: "Resolve the current price of a price pool file",
	Long: `Resolve the current public and member prices of an item from a price pool
stored as JSON. The pool is evaluated at the given instant in the given store,
which determines the local date used for the 30-day historic floor.`,
	Example: `  catalog-service price ./pool.json
  catalog-service price ./pool.json --store vladivostok --at 2024-03-15T10:00:00Z
  catalog-service price ./pool.json --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&priceStore, "store", string(storefront.Moscow), "Store time zone")
	priceCmd.Flags().StringVar(&priceAt, "at", "", "Instant to resolve at, RFC 3339 (default now)")
	priceCmd.Flags().StringVar(&priceOutput, "output", "table", "Output format: table or json")
}

func runPrice(cmd *cobra.Command, args []string) error {
	tz, err := storefront.ParseTimezone(priceStore)
	if err != nil {
		return err
	}

	now := time.Now()
	if priceAt != "" {
		now, err = time.Parse(time.RFC3339, priceAt)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	var pool pricing.ProductItemPrice
	if err := json.Unmarshal(content, &pool); err != nil {
		return fmt.Errorf("failed to decode price pool: %w", err)
	}

	current, ok := pricing.Current(now, tz, pool)
	if !ok {
		return fmt.Errorf("item %s has no active list or campaign price at %s", pool.ItemID, now.Format(time.RFC3339))
	}

	switch strings.ToLower(priceOutput) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			ItemID    string                   `json:"itemId"`
			Price     pricing.CurrentPriceView `json:"price"`
			Signature string                   `json:"signature"`
		}{pool.ItemID, current.View(), pricing.Signature(current)})
	case "table":
		outputPriceTable(pool.ItemID, tz, current)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", priceOutput)
	}
}

func outputPriceTable(itemID string, tz storefront.Timezone, current pricing.CurrentPrice) {
	fmt.Printf("\nCurrent price of %s in %s\n", itemID, tz)
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tPRICE ID\tPRICE LIST\tVALUE\tDISCOUNT")
	fmt.Fprintln(w, "----\t--------\t----------\t-----\t--------")
	for _, p := range pricing.Chain(current.Public) {
		view := pricing.ViewOf(p)
		discount := "-"
		if view.Discount != nil {
			discount = view.Discount.StringFixed(2) + "%"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", view.Kind, view.PriceID, view.PriceListID, view.Value.StringFixed(2), discount)
	}
	w.Flush()

	if len(current.Members) > 0 {
		levels := make([]string, 0, len(current.Members))
		for level := range current.Members {
			levels = append(levels, string(level))
		}
		sort.Strings(levels)

		fmt.Println("\nMember prices")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "LEVEL\tVALUE\tFROM PUBLIC\tFROM LIST")
		fmt.Fprintln(w, "-----\t-----\t-----------\t---------")
		for _, level := range levels {
			m := current.Members[pricing.MembershipLevel(level)]
			fmt.Fprintf(w, "%s\t%s\t%s%%\t%s%%\n", level, m.Price.Value.StringFixed(2), m.DiscountFromPublic.StringFixed(2), m.DiscountFromList.StringFixed(2))
		}
		w.Flush()
	}

	fmt.Printf("\nVAT rate: %s\n", current.VatRate.String())
	fmt.Printf("Signature: %s\n", pricing.Signature(current))
}
