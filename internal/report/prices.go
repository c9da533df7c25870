// Package report renders resolved catalog prices as a spreadsheet for price
// disclosure checks: the selling price next to the lowest price of the last 30 days.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// SheetName is the worksheet the price rows are written to.
const SheetName = "Prices"

var header = []any{
	"Product ID", "Item ID", "Price kind", "Price", "VAT rate",
	"Discount %", "Lowest 30-day price", "Lowest price list", "Signature",
}

// Source lists stored products.
type Source interface {
	ProductIDs(ctx context.Context) ([]string, error)
	Product(ctx context.Context, productID string) (completion.IncompleteProduct, error)
}

// Row is the resolved price of one item.
type Row struct {
	ProductID      string
	ItemID         string
	Kind           pricing.Kind
	Price          decimal.Decimal
	VatRate        decimal.Decimal
	Discount       decimal.Decimal
	Lowest30d      *decimal.Decimal
	LowestListID   string
	PriceSignature string
}

// Rows resolves the current price of every priced item of product for a store.
// Items without an active price are skipped.
func Rows(now time.Time, tz storefront.Timezone, product completion.IncompleteProduct) []Row {
	today := tz.LocalDate(now)
	var rows []Row
	for _, id := range product.ItemIDs() {
		item, _ := product.Item(id)
		if item.Price == nil {
			continue
		}
		current, ok := pricing.Current(now, tz, *item.Price)
		if !ok {
			continue
		}

		row := Row{
			ProductID:      product.ProductID,
			ItemID:         id,
			Kind:           current.Public.Kind(),
			Price:          current.Public.Value(),
			VatRate:        current.VatRate,
			PriceSignature: pricing.Signature(current),
		}
		if view := pricing.ViewOf(current.Public); view.Discount != nil {
			row.Discount = *view.Discount
		}
		history := item.Price.SellingPriceHistory.RemoveOutdated(now, tz)
		if lowest, found := history.FindLowestOriginalPrice(today, ""); found {
			value := lowest.Value
			row.Lowest30d = &value
			row.LowestListID = lowest.PriceListID
		}
		rows = append(rows, row)
	}
	return rows
}

// Collect resolves the rows of every product in src.
func Collect(ctx context.Context, src Source, now time.Time, tz storefront.Timezone) ([]Row, error) {
	ids, err := src.ProductIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	var rows []Row
	for _, id := range ids {
		product, err := src.Product(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", id, err)
		}
		rows = append(rows, Rows(now, tz, product)...)
	}
	return rows, nil
}

// WriteXLSX writes rows as a workbook with a single header-styled sheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			row.ProductID,
			row.ItemID,
			string(row.Kind),
			row.Price.InexactFloat64(),
			row.VatRate.InexactFloat64(),
			row.Discount.InexactFloat64(),
			nil,
			row.LowestListID,
			row.PriceSignature,
		}
		if row.Lowest30d != nil {
			values[6] = row.Lowest30d.InexactFloat64()
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "I", "I", 66); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
