package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/recovery"
)

// replayOrder is the order stashed facts are folded in when their item arrives.
var replayOrder = []completion.Part{
	completion.PartPrice,
	completion.PartInventory,
	completion.PartStock,
	completion.PartBackorder,
}

// ApplyProductItem stores item metadata under its product, moving the item when
// it previously belonged to another product, and replays every fact stashed for
// the item while it was unknown.
func (e *Engine) ApplyProductItem(ctx context.Context, item catalog.ProductItem) (outcome Outcome, err error) {
	ctx, span := e.startSpan(ctx, "ApplyProductItem",
		attribute.String("item.id", item.ItemID),
		attribute.String("product.id", item.ProductID),
	)
	defer func() { endSpan(span, err) }()

	fact := string(completion.PartProductItem)
	if item.ItemID == "" || item.ProductID == "" {
		e.metrics.RecordFactFailure(fact)
		return "", fmt.Errorf("%w: product item requires itemId and productId", ErrInvalidFact)
	}

	unlock := e.locks.Lock("item:" + item.ItemID)
	defer unlock()

	previousID, known, err := e.productOf(ctx, item.ItemID)
	if err != nil {
		e.metrics.RecordFactFailure(fact)
		return "", err
	}

	relocated := known && previousID != item.ProductID
	var moved *completion.IncompleteProductItem
	if relocated {
		moved, err = e.itemIn(ctx, previousID, item.ItemID)
		if err != nil {
			e.metrics.RecordFactFailure(fact)
			return "", err
		}
	}

	// The item reaches its new product before it leaves the old one, and the
	// index is switched last.
	var replayed []completion.Part
	_, err = e.updateProduct(ctx, item.ProductID, func(p completion.IncompleteProduct) (completion.IncompleteProduct, error) {
		if moved != nil {
			p = p.MergeItem(*moved)
		}
		p = p.WithProductItem(item)
		if known {
			return p, nil
		}
		var err error
		p, replayed, err = e.replay(ctx, p, item.ItemID)
		return p, err
	})
	if err != nil {
		e.metrics.RecordFactFailure(fact)
		return "", err
	}

	if relocated {
		if err := e.detach(ctx, previousID, item.ItemID); err != nil {
			e.metrics.RecordFactFailure(fact)
			return "", err
		}
		e.logger.Info().
			Str("item_id", item.ItemID).
			Str("from_product", previousID).
			Str("to_product", item.ProductID).
			Msg("Item moved to another product")
	}

	if !known || relocated {
		if err := e.index(ctx, item.ItemID, item.ProductID); err != nil {
			e.metrics.RecordFactFailure(fact)
			return "", err
		}
	}

	for _, part := range replayed {
		if _, _, err := e.recovery.RemoveAndReturn(ctx, recovery.Key(string(part), item.ItemID)); err != nil {
			e.metrics.RecordCollaboratorError("recovery")
			e.logger.Error().Err(err).
				Str("item_id", item.ItemID).
				Str("fact", string(part)).
				Msg("Failed to drop replayed fact")
		}
		e.metrics.RecordReplay(string(part))
	}

	e.metrics.RecordFact(fact, Applied)
	e.logger.Debug().
		Str("item_id", item.ItemID).
		Str("product_id", item.ProductID).
		Int("replayed", len(replayed)).
		Msg("Applied product item")
	return Applied, nil
}

// ApplyPrice stores the price pool of an item and records the selling price.
func (e *Engine) ApplyPrice(ctx context.Context, pool pricing.ProductItemPrice) (Outcome, error) {
	return e.applyFact(ctx, completion.PartPrice, pool.ItemID, pool, func(p completion.IncompleteProduct) completion.IncompleteProduct {
		return e.withPrice(p, pool)
	})
}

// ApplyInventory stores the inventory of an item.
func (e *Engine) ApplyInventory(ctx context.Context, inventory catalog.FullInventory) (Outcome, error) {
	return e.applyFact(ctx, completion.PartInventory, inventory.ItemID, inventory, func(p completion.IncompleteProduct) completion.IncompleteProduct {
		return p.WithInventory(inventory)
	})
}

// ApplyStockBalance stores the stock balance of an item.
func (e *Engine) ApplyStockBalance(ctx context.Context, balance catalog.StockBalance) (Outcome, error) {
	return e.applyFact(ctx, completion.PartStock, balance.ItemID, balance, func(p completion.IncompleteProduct) completion.IncompleteProduct {
		return p.WithStockBalance(balance)
	})
}

// ApplyBackorder stores the backorder availability of an item.
func (e *Engine) ApplyBackorder(ctx context.Context, backorder catalog.BackorderAvailability) (Outcome, error) {
	return e.applyFact(ctx, completion.PartBackorder, backorder.ItemID, backorder, func(p completion.IncompleteProduct) completion.IncompleteProduct {
		return p.WithBackorderAvailability(backorder)
	})
}

// Remove clears one part of an item. For an item whose product is not known
// yet, the stashed fact of that part is dropped instead.
func (e *Engine) Remove(ctx context.Context, itemID string, part completion.Part) (outcome Outcome, err error) {
	ctx, span := e.startSpan(ctx, "Remove",
		attribute.String("item.id", itemID),
		attribute.String("fact", string(part)),
	)
	defer func() { endSpan(span, err) }()

	if itemID == "" {
		return "", fmt.Errorf("%w: removal requires itemId", ErrInvalidFact)
	}

	unlock := e.locks.Lock("item:" + itemID)
	defer unlock()

	productID, known, err := e.productOf(ctx, itemID)
	if err != nil {
		e.metrics.RecordFactFailure("remove_" + string(part))
		return "", err
	}

	if !known {
		if part != completion.PartProductItem {
			if _, _, err := e.recovery.RemoveAndReturn(ctx, recovery.Key(string(part), itemID)); err != nil {
				e.metrics.RecordCollaboratorError("recovery")
				e.metrics.RecordFactFailure("remove_" + string(part))
				return "", fmt.Errorf("failed to drop stashed %s fact of item %s: %w", part, itemID, err)
			}
		}
		e.metrics.RecordFact("remove_"+string(part), Dropped)
		return Dropped, nil
	}

	_, err = e.updateProduct(ctx, productID, func(p completion.IncompleteProduct) (completion.IncompleteProduct, error) {
		return p.Remove(itemID, part), nil
	})
	if err != nil {
		e.metrics.RecordFactFailure("remove_" + string(part))
		return "", err
	}

	e.metrics.RecordFact("remove_"+string(part), Applied)
	return Applied, nil
}

func (e *Engine) applyFact(ctx context.Context, part completion.Part, itemID string, value any, apply func(completion.IncompleteProduct) completion.IncompleteProduct) (outcome Outcome, err error) {
	ctx, span := e.startSpan(ctx, "Apply",
		attribute.String("item.id", itemID),
		attribute.String("fact", string(part)),
	)
	defer func() { endSpan(span, err) }()

	fact := string(part)
	if itemID == "" {
		e.metrics.RecordFactFailure(fact)
		return "", fmt.Errorf("%w: %s fact requires itemId", ErrInvalidFact, part)
	}

	unlock := e.locks.Lock("item:" + itemID)
	defer unlock()

	productID, known, err := e.productOf(ctx, itemID)
	if err != nil {
		e.metrics.RecordFactFailure(fact)
		return "", err
	}

	if !known {
		if err := e.stashFact(ctx, part, itemID, value); err != nil {
			e.metrics.RecordFactFailure(fact)
			return "", err
		}
		e.metrics.RecordFact(fact, Stashed)
		e.logger.Debug().
			Str("item_id", itemID).
			Str("fact", fact).
			Msg("Stashed fact for unknown item")
		return Stashed, nil
	}

	_, err = e.updateProduct(ctx, productID, func(p completion.IncompleteProduct) (completion.IncompleteProduct, error) {
		return apply(p), nil
	})
	if err != nil {
		e.metrics.RecordFactFailure(fact)
		return "", err
	}

	e.metrics.RecordFact(fact, Applied)
	return Applied, nil
}

// stashFact keeps the latest fact of a part for an unknown item. Price pools
// are merged with the pool already stashed.
func (e *Engine) stashFact(ctx context.Context, part completion.Part, itemID string, value any) error {
	if pool, ok := value.(pricing.ProductItemPrice); ok {
		raw, found, err := e.recovery.Get(ctx, recovery.Key(string(part), itemID))
		if err != nil {
			e.metrics.RecordCollaboratorError("recovery")
			return fmt.Errorf("failed to read stashed price of item %s: %w", itemID, err)
		}
		if found {
			var previous pricing.ProductItemPrice
			if err := json.Unmarshal(raw, &previous); err != nil {
				return fmt.Errorf("failed to decode stashed price of item %s: %w", itemID, err)
			}
			value = completion.MergePricePools(previous, pool)
		}
	}
	return e.stash(ctx, part, itemID, value)
}

// replay folds every stashed fact of itemID into p and reports the parts it
// found. The stash is left in place for the caller to drop once p is saved.
func (e *Engine) replay(ctx context.Context, p completion.IncompleteProduct, itemID string) (completion.IncompleteProduct, []completion.Part, error) {
	var replayed []completion.Part
	for _, part := range replayOrder {
		raw, found, err := e.recovery.Get(ctx, recovery.Key(string(part), itemID))
		if err != nil {
			e.metrics.RecordCollaboratorError("recovery")
			return p, nil, fmt.Errorf("failed to read stashed %s fact of item %s: %w", part, itemID, err)
		}
		if !found {
			continue
		}
		p, err = e.applyStashed(p, part, raw)
		if err != nil {
			return p, nil, fmt.Errorf("failed to replay %s fact of item %s: %w", part, itemID, err)
		}
		replayed = append(replayed, part)
	}
	return p, replayed, nil
}

func (e *Engine) applyStashed(p completion.IncompleteProduct, part completion.Part, raw []byte) (completion.IncompleteProduct, error) {
	switch part {
	case completion.PartPrice:
		var pool pricing.ProductItemPrice
		if err := json.Unmarshal(raw, &pool); err != nil {
			return p, err
		}
		return e.withPrice(p, pool), nil
	case completion.PartInventory:
		var inventory catalog.FullInventory
		if err := json.Unmarshal(raw, &inventory); err != nil {
			return p, err
		}
		return p.WithInventory(inventory), nil
	case completion.PartStock:
		var balance catalog.StockBalance
		if err := json.Unmarshal(raw, &balance); err != nil {
			return p, err
		}
		return p.WithStockBalance(balance), nil
	case completion.PartBackorder:
		var backorder catalog.BackorderAvailability
		if err := json.Unmarshal(raw, &backorder); err != nil {
			return p, err
		}
		return p.WithBackorderAvailability(backorder), nil
	}
	return p, fmt.Errorf("unknown fact %q", part)
}

// withPrice applies a price pool and records the resulting selling price in
// the item's price log.
func (e *Engine) withPrice(p completion.IncompleteProduct, pool pricing.ProductItemPrice) completion.IncompleteProduct {
	p = p.WithPrice(pool)
	item, ok := p.Item(pool.ItemID)
	if !ok || item.Price == nil {
		return p
	}
	recorded := pricing.RecordSellingPrice(e.now(), e.cfg.HistoryTimezone, *item.Price)
	item.Price = &recorded
	return p.WithItem(item)
}

// itemIn returns the item as stored in productID, or nil when the product no
// longer holds it.
func (e *Engine) itemIn(ctx context.Context, productID, itemID string) (*completion.IncompleteProductItem, error) {
	product, err := e.Product(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item, ok := product.Item(itemID)
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// detach removes itemID from its previous product.
func (e *Engine) detach(ctx context.Context, productID, itemID string) error {
	_, err := e.updateProduct(ctx, productID, func(p completion.IncompleteProduct) (completion.IncompleteProduct, error) {
		return p.WithoutItem(itemID), nil
	})
	if err != nil {
		return fmt.Errorf("failed to detach item %s from product %s: %w", itemID, productID, err)
	}
	return nil
}

func (e *Engine) index(ctx context.Context, itemID, productID string) error {
	if err := e.putJSON(ctx, itemKey(itemID), productID); err != nil {
		return fmt.Errorf("failed to index item %s: %w", itemID, err)
	}
	return nil
}
