package pricing

import (
	"time"

	"github.com/kosarica/catalog-service/internal/storefront"
)

// RecordSellingPrice appends today's public base price (never a quantity-limited
// tier) to the pool's selling price log and trims the log to the compliance window.
func RecordSellingPrice(now time.Time, tz storefront.Timezone, pool ProductItemPrice) ProductItemPrice {
	history := pool.SellingPriceHistory
	if current, ok := Current(now, tz, pool); ok {
		history = history.Add(tz.LocalDate(now), current.Base().Source().Original())
	}
	pool.SellingPriceHistory = history.RemoveOutdated(now, tz)
	return pool
}
