package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/localization"
	"github.com/kosarica/catalog-service/internal/partial"
	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// ExportItem localizes one item for a store and language. The returned errors
// list missing parts or localization failures; they are empty on success.
func (e *Engine) ExportItem(ctx context.Context, itemID string, tz storefront.Timezone, lang language.Tag) (item localization.LocalizedCompleteItem, failures []localization.FullItemError, err error) {
	ctx, span := e.startSpan(ctx, "ExportItem",
		attribute.String("item.id", itemID),
		attribute.String("store.timezone", tz.String()),
		attribute.String("language", lang.String()),
	)
	defer func() { endSpan(span, err) }()

	start := time.Now()
	incomplete, err := e.Item(ctx, itemID)
	if err != nil {
		return localization.LocalizedCompleteItem{}, nil, err
	}

	item, failures = localization.ExportItem(e.now(), tz, lang, incomplete)
	outcome := partial.FullSuccess
	if len(failures) > 0 {
		outcome = partial.NoSuccess
	}
	e.metrics.RecordExport("item", string(outcome), time.Since(start))
	span.SetAttributes(attribute.String("export.outcome", string(outcome)))
	return item, failures, nil
}

// ExportProduct localizes every item of a product for a store and language.
func (e *Engine) ExportProduct(ctx context.Context, productID string, tz storefront.Timezone, lang language.Tag) (result localization.ExportResult, err error) {
	ctx, span := e.startSpan(ctx, "ExportProduct",
		attribute.String("product.id", productID),
		attribute.String("store.timezone", tz.String()),
		attribute.String("language", lang.String()),
	)
	defer func() { endSpan(span, err) }()

	start := time.Now()
	product, err := e.Product(ctx, productID)
	if err != nil {
		return localization.ExportResult{}, err
	}

	result = localization.ExportProduct(e.now(), tz, lang, product,
		localization.WithConcurrency(e.cfg.ExportConcurrency))
	e.metrics.RecordExport("product", string(result.Outcome), time.Since(start))
	span.SetAttributes(attribute.String("export.outcome", string(result.Outcome)))

	e.logger.Debug().
		Str("product_id", productID).
		Str("outcome", string(result.Outcome)).
		Int("failed_items", len(result.Errors)).
		Msg("Exported product")
	return result, nil
}

// CurrentPrice resolves the price of an item for a store. The flag is false
// when the item has no price pool or nothing in it is active.
func (e *Engine) CurrentPrice(ctx context.Context, itemID string, tz storefront.Timezone) (pricing.CurrentPrice, bool, error) {
	item, err := e.Item(ctx, itemID)
	if err != nil {
		return pricing.CurrentPrice{}, false, err
	}
	if item.Price == nil {
		return pricing.CurrentPrice{}, false, nil
	}
	current, ok := pricing.Current(e.now(), tz, *item.Price)
	return current, ok, nil
}

// RefreshPriceHistory records today's selling price of every priced item of a
// product and drops outdated log entries. It returns the number of items refreshed.
func (e *Engine) RefreshPriceHistory(ctx context.Context, productID string) (refreshed int, err error) {
	ctx, span := e.startSpan(ctx, "RefreshPriceHistory", attribute.String("product.id", productID))
	defer func() { endSpan(span, err) }()

	if _, err := e.Product(ctx, productID); err != nil {
		return 0, err
	}

	now := e.now()
	_, err = e.updateProduct(ctx, productID, func(p completion.IncompleteProduct) (completion.IncompleteProduct, error) {
		refreshed = 0
		for _, id := range p.ItemIDs() {
			item, _ := p.Item(id)
			if item.Price == nil {
				continue
			}
			recorded := pricing.RecordSellingPrice(now, e.cfg.HistoryTimezone, *item.Price)
			item.Price = &recorded
			p = p.WithItem(item)
			refreshed++
		}
		return p, nil
	})
	if err != nil {
		return 0, err
	}

	e.metrics.RecordPriceHistoryUpdates(refreshed)
	return refreshed, nil
}
