package completion

import (
	"sort"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/pricing"
)

// IncompleteProduct groups the incomplete items of a product by item id.
// Values are never modified in place; every operation returns a new value.
type IncompleteProduct struct {
	ProductID string                           `json:"productId"`
	Items     map[string]IncompleteProductItem `json:"items"`
}

// NewIncompleteProduct returns a product without items.
func NewIncompleteProduct(productID string) IncompleteProduct {
	return IncompleteProduct{ProductID: productID, Items: map[string]IncompleteProductItem{}}
}

// Item returns the incomplete item with itemID.
func (p IncompleteProduct) Item(itemID string) (IncompleteProductItem, bool) {
	item, ok := p.Items[itemID]
	return item, ok
}

// ItemIDs returns the ids of the product items in ascending order.
func (p IncompleteProduct) ItemIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for id := range p.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithItem stores item, replacing any item with the same id.
func (p IncompleteProduct) WithItem(item IncompleteProductItem) IncompleteProduct {
	items := make(map[string]IncompleteProductItem, len(p.Items)+1)
	for id, existing := range p.Items {
		items[id] = existing
	}
	items[item.ItemID] = item
	p.Items = items
	return p
}

// MergeItem folds item into the stored item with the same id.
func (p IncompleteProduct) MergeItem(item IncompleteProductItem) IncompleteProduct {
	return p.update(item.ItemID, func(existing IncompleteProductItem) IncompleteProductItem {
		return existing.Merge(item)
	})
}

// WithoutItem drops the item with itemID.
func (p IncompleteProduct) WithoutItem(itemID string) IncompleteProduct {
	if _, ok := p.Items[itemID]; !ok {
		return p
	}
	items := make(map[string]IncompleteProductItem, len(p.Items))
	for id, existing := range p.Items {
		if id != itemID {
			items[id] = existing
		}
	}
	p.Items = items
	return p
}

func (p IncompleteProduct) update(itemID string, f func(IncompleteProductItem) IncompleteProductItem) IncompleteProduct {
	item, ok := p.Items[itemID]
	if !ok {
		item = NewIncompleteProductItem(itemID)
	}
	return p.WithItem(f(item))
}

// WithProductItem applies item metadata. Items of another product are ignored.
func (p IncompleteProduct) WithProductItem(item catalog.ProductItem) IncompleteProduct {
	if item.ProductID != p.ProductID {
		return p
	}
	return p.update(item.ItemID, func(i IncompleteProductItem) IncompleteProductItem {
		return i.WithProductItem(item)
	})
}

func (p IncompleteProduct) WithPrice(pool pricing.ProductItemPrice) IncompleteProduct {
	return p.update(pool.ItemID, func(i IncompleteProductItem) IncompleteProductItem {
		return i.WithPrice(pool)
	})
}

func (p IncompleteProduct) WithInventory(inventory catalog.FullInventory) IncompleteProduct {
	return p.update(inventory.ItemID, func(i IncompleteProductItem) IncompleteProductItem {
		return i.WithInventory(inventory)
	})
}

func (p IncompleteProduct) WithStockBalance(balance catalog.StockBalance) IncompleteProduct {
	return p.update(balance.ItemID, func(i IncompleteProductItem) IncompleteProductItem {
		return i.WithStockBalance(balance)
	})
}

func (p IncompleteProduct) WithBackorderAvailability(backorder catalog.BackorderAvailability) IncompleteProduct {
	return p.update(backorder.ItemID, func(i IncompleteProductItem) IncompleteProductItem {
		return i.WithBackorderAvailability(backorder)
	})
}

// Remove clears part of the item with itemID. Unknown items are ignored.
func (p IncompleteProduct) Remove(itemID string, part Part) IncompleteProduct {
	item, ok := p.Items[itemID]
	if !ok {
		return p
	}
	switch part {
	case PartProductItem:
		item = item.RemoveProductItem()
	case PartPrice:
		item = item.RemovePrice()
	case PartInventory:
		item = item.RemoveInventory()
	case PartStock:
		item = item.RemoveStockBalance()
	case PartBackorder:
		item = item.RemoveBackorderAvailability()
	default:
		return p
	}
	return p.WithItem(item)
}
