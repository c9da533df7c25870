package completion

import (
	"fmt"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/partial"
	"github.com/kosarica/catalog-service/internal/pricing"
)

// Part names one fact slot of an item.
type Part string

const (
	PartProductItem Part = "product_item"
	PartPrice       Part = "price"
	PartInventory   Part = "inventory"
	PartStock       Part = "stock"
	PartBackorder   Part = "backorder"
)

// Parts lists every slot in the order they are reported.
var Parts = []Part{PartProductItem, PartPrice, PartInventory, PartStock, PartBackorder}

// ParsePart parses a slot name.
func ParsePart(s string) (Part, error) {
	for _, p := range Parts {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown item part %q", s)
}

// MissingProductItemPart reports a required fact that has not arrived yet.
type MissingProductItemPart struct {
	ItemID string `json:"itemId"`
	Part   Part   `json:"part"`
}

func (m MissingProductItemPart) Error() string {
	return fmt.Sprintf("item %s: missing %s", m.ItemID, m.Part)
}

// CompleteProductItem is an item with every required fact present.
type CompleteProductItem struct {
	Item      catalog.ProductItem            `json:"item"`
	Price     pricing.ProductItemPrice       `json:"price"`
	Inventory catalog.FullInventory          `json:"inventory"`
	Stock     *catalog.StockBalance          `json:"stock,omitempty"`
	Backorder *catalog.BackorderAvailability `json:"backorder,omitempty"`
}

// ItemID returns the id of the item.
func (c CompleteProductItem) ItemID() string {
	return c.Item.ItemID
}

// StockStatus resolves the availability shown for the item.
func (c CompleteProductItem) StockStatus() catalog.ItemStock {
	return catalog.ResolveStock(c.Stock, c.Backorder)
}

// CompleteProduct is a product with its complete items sorted by item id.
type CompleteProduct struct {
	ProductID string                `json:"productId"`
	Items     []CompleteProductItem `json:"items"`
}

// ProductResult is the outcome of completing a product.
type ProductResult = partial.Result[CompleteProduct, MissingProductItemPart]

// TryCompleteItem promotes i when its metadata, price and inventory are all
// present. Otherwise it returns every missing part.
func TryCompleteItem(i IncompleteProductItem) (CompleteProductItem, []MissingProductItemPart) {
	var missing []MissingProductItemPart
	if i.Item == nil {
		missing = append(missing, MissingProductItemPart{ItemID: i.ItemID, Part: PartProductItem})
	}
	if i.Price == nil {
		missing = append(missing, MissingProductItemPart{ItemID: i.ItemID, Part: PartPrice})
	}
	if i.Inventory == nil {
		missing = append(missing, MissingProductItemPart{ItemID: i.ItemID, Part: PartInventory})
	}
	if len(missing) > 0 {
		return CompleteProductItem{}, missing
	}

	return CompleteProductItem{
		Item:      *i.Item,
		Price:     *i.Price,
		Inventory: *i.Inventory,
		Stock:     i.Stock,
		Backorder: i.Backorder,
	}, nil
}

// TryCompleteProduct completes every item of p in item id order and reports the
// items that could not be completed by item id.
func TryCompleteProduct(p IncompleteProduct) ProductResult {
	complete := CompleteProduct{ProductID: p.ProductID, Items: []CompleteProductItem{}}
	errors := make(map[string][]MissingProductItemPart)

	for _, id := range p.ItemIDs() {
		item, missing := TryCompleteItem(p.Items[id])
		if len(missing) > 0 {
			errors[id] = missing
			continue
		}
		complete.Items = append(complete.Items, item)
	}
	return partial.Of(p.ProductID, complete, len(complete.Items), errors)
}
