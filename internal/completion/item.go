// Package completion folds independently arriving facts about catalog items into
// incomplete items and products, and promotes them to complete ones.
//
// Every With* operation is idempotent, and operations on different fields commute.
// The one exception is WithPrice: limited-price quantities keep the lowest value
// ever observed, so the order of two price updates matters.
package completion

import (
	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/pricing"
)

// IncompleteProductItem collects the facts known about one item so far.
// Values are never modified in place; every operation returns a new value.
type IncompleteProductItem struct {
	ItemID    string                         `json:"itemId"`
	Item      *catalog.ProductItem           `json:"item,omitempty"`
	Price     *pricing.ProductItemPrice      `json:"price,omitempty"`
	Inventory *catalog.FullInventory         `json:"inventory,omitempty"`
	Stock     *catalog.StockBalance          `json:"stock,omitempty"`
	Backorder *catalog.BackorderAvailability `json:"backorder,omitempty"`
}

// NewIncompleteProductItem returns an item with no facts.
func NewIncompleteProductItem(itemID string) IncompleteProductItem {
	return IncompleteProductItem{ItemID: itemID}
}

// WithProductItem replaces the item metadata.
func (i IncompleteProductItem) WithProductItem(item catalog.ProductItem) IncompleteProductItem {
	if item.ItemID != i.ItemID {
		return i
	}
	i.Item = &item
	return i.reconcileFreightClass()
}

// WithInventory replaces the inventory record.
func (i IncompleteProductItem) WithInventory(inventory catalog.FullInventory) IncompleteProductItem {
	if inventory.ItemID != i.ItemID {
		return i
	}
	i.Inventory = &inventory
	return i.reconcileFreightClass()
}

// WithPrice replaces the price pool. See MergePricePools for what survives from
// the previous pool.
func (i IncompleteProductItem) WithPrice(pool pricing.ProductItemPrice) IncompleteProductItem {
	if pool.ItemID != i.ItemID {
		return i
	}
	if i.Price != nil {
		pool = MergePricePools(*i.Price, pool)
	}
	i.Price = &pool
	return i
}

// WithStockBalance replaces the stock balance.
func (i IncompleteProductItem) WithStockBalance(balance catalog.StockBalance) IncompleteProductItem {
	if balance.ItemID != i.ItemID {
		return i
	}
	i.Stock = &balance
	return i
}

// WithBackorderAvailability replaces the backorder record.
func (i IncompleteProductItem) WithBackorderAvailability(backorder catalog.BackorderAvailability) IncompleteProductItem {
	if backorder.ItemID != i.ItemID {
		return i
	}
	i.Backorder = &backorder
	return i
}

// RemoveProductItem clears the item metadata.
func (i IncompleteProductItem) RemoveProductItem() IncompleteProductItem {
	i.Item = nil
	return i
}

// RemovePrice clears the price pool.
func (i IncompleteProductItem) RemovePrice() IncompleteProductItem {
	i.Price = nil
	return i
}

// RemoveInventory clears the inventory record.
func (i IncompleteProductItem) RemoveInventory() IncompleteProductItem {
	i.Inventory = nil
	return i
}

// RemoveStockBalance clears the stock balance.
func (i IncompleteProductItem) RemoveStockBalance() IncompleteProductItem {
	i.Stock = nil
	return i
}

// RemoveBackorderAvailability clears the backorder record.
func (i IncompleteProductItem) RemoveBackorderAvailability() IncompleteProductItem {
	i.Backorder = nil
	return i
}

// Merge folds every fact other knows into i. Facts of other win, and price
// pools are merged as by WithPrice.
func (i IncompleteProductItem) Merge(other IncompleteProductItem) IncompleteProductItem {
	if other.Item != nil {
		i = i.WithProductItem(*other.Item)
	}
	if other.Price != nil {
		i = i.WithPrice(*other.Price)
	}
	if other.Inventory != nil {
		i = i.WithInventory(*other.Inventory)
	}
	if other.Stock != nil {
		i = i.WithStockBalance(*other.Stock)
	}
	if other.Backorder != nil {
		i = i.WithBackorderAvailability(*other.Backorder)
	}
	return i
}

// IsEmpty reports whether no fact is known about the item.
func (i IncompleteProductItem) IsEmpty() bool {
	return i.Item == nil && i.Price == nil && i.Inventory == nil && i.Stock == nil && i.Backorder == nil
}

// MergePricePools returns incoming with two things carried over from previous:
// limited-price quantities never increase, and the selling price log is kept
// when incoming carries none.
func MergePricePools(previous, incoming pricing.ProductItemPrice) pricing.ProductItemPrice {
	incoming.LimitedPrices = mergeLimitedQuantities(previous.LimitedPrices, incoming.LimitedPrices)
	if incoming.SellingPriceHistory.IsEmpty() {
		incoming.SellingPriceHistory = previous.SellingPriceHistory
	}
	return incoming
}

// mergeLimitedQuantities takes the lower quantity of every limited price present
// in both pools. Prices only present in incoming pass through unchanged.
func mergeLimitedQuantities(previous, incoming []pricing.LimitedPrice) []pricing.LimitedPrice {
	if incoming == nil {
		return nil
	}
	quantities := make(map[string]int, len(previous))
	for _, p := range previous {
		quantities[p.PriceID] = p.Quantity
	}

	merged := make([]pricing.LimitedPrice, len(incoming))
	for idx, p := range incoming {
		if q, ok := quantities[p.PriceID]; ok && q < p.Quantity {
			p.Quantity = q
		}
		merged[idx] = p
	}
	return merged
}

// reconcileFreightClass makes the inventory and item dimensions agree on the
// freight class. An explicit class sent with the inventory wins; otherwise it is
// parsed from the item dimensions.
func (i IncompleteProductItem) reconcileFreightClass() IncompleteProductItem {
	var class int
	derived := false
	switch {
	case i.Inventory != nil && i.Inventory.FreightClass != nil && !i.Inventory.FreightClassDerived:
		class = *i.Inventory.FreightClass
	case i.Item != nil:
		class = catalog.ParseFreightClass(i.Item.Dimensions.FreightClassText)
		derived = true
	default:
		return i
	}

	if i.Item != nil {
		item := *i.Item
		itemClass := class
		item.Dimensions.FreightClass = &itemClass
		i.Item = &item
	}
	if i.Inventory != nil {
		inventory := *i.Inventory
		inventoryClass := class
		inventory.FreightClass = &inventoryClass
		inventory.FreightClassDerived = derived
		i.Inventory = &inventory
	}
	return i
}
