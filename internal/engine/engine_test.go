package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/partial"
	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/recovery"
	"github.com/kosarica/catalog-service/internal/storage"
	"github.com/kosarica/catalog-service/internal/storefront"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine *Engine
	store  *storage.MemoryStorage
	cache  *recovery.MemoryCache
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := storage.NewMemoryStorage()
	cache := recovery.NewMemoryCache(time.Hour)
	e := New(store, cache, Config{HistoryTimezone: storefront.Moscow, ExportConcurrency: 2}, zerolog.Nop(),
		WithClock(func() time.Time { return now }))
	return fixture{engine: e, store: store, cache: cache}
}

func productItem(itemID, productID string) catalog.ProductItem {
	mpn := "MPN-" + itemID
	return catalog.ProductItem{
		ItemID:           itemID,
		ProductID:        productID,
		Sku:              "SKU-" + itemID,
		ProTerm:          catalog.LocalizedText{language.Russian: "Дрель"},
		FullReview:       catalog.LocalizedText{language.Russian: "Полный обзор"},
		ShortDescription: catalog.LocalizedText{language.Russian: "Кратко"},
		Seo: map[language.Tag]catalog.SeoData{
			language.Russian: {Title: "Дрель", Description: "Купить дрель"},
		},
		ManufacturerPartNumber: &mpn,
	}
}

func pricePool(itemID string, limitedQty int) pricing.ProductItemPrice {
	vat := decimal.NewFromInt(20)
	pool := pricing.ProductItemPrice{
		ItemID: itemID,
		ListPrices: []pricing.ListPrice{{Price: pricing.Price{
			PriceID: "l1", PriceListID: "list", Value: decimal.NewFromInt(100), VatRate: vat,
		}}},
	}
	if limitedQty > 0 {
		pool.LimitedPrices = []pricing.LimitedPrice{{
			Price:    pricing.Price{PriceID: "q1", PriceListID: "limited", Value: decimal.NewFromInt(70), VatRate: vat},
			Quantity: limitedQty,
		}}
	}
	return pool
}

func TestApplyFactForUnknownItemIsStashed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	outcome, err := f.engine.ApplyInventory(ctx, catalog.FullInventory{ItemID: "item-1", Purchasable: true})
	require.NoError(t, err)
	assert.Equal(t, Stashed, outcome)

	_, found, err := f.cache.Get(ctx, recovery.Key("inventory", "item-1"))
	require.NoError(t, err)
	assert.True(t, found)

	ids, err := f.engine.ProductIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestApplyProductItemReplaysStashedFacts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.ApplyPrice(ctx, pricePool("item-1", 0))
	require.NoError(t, err)
	_, err = f.engine.ApplyStockBalance(ctx, catalog.StockBalance{ItemID: "item-1", Available: 4})
	require.NoError(t, err)

	outcome, err := f.engine.ApplyProductItem(ctx, productItem("item-1", "product-1"))
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)

	item, err := f.engine.Item(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, item.Item)
	require.NotNil(t, item.Price)
	require.NotNil(t, item.Stock)
	assert.Equal(t, 4, item.Stock.Available)

	// the replayed price pool has today's selling price logged
	logged, ok := item.Price.SellingPriceHistory.Get(civil.Date{Year: 2024, Month: time.March, Day: 15})
	require.True(t, ok)
	assert.Equal(t, "l1", logged.PriceID)

	for _, part := range []string{"price", "stock"} {
		_, found, err := f.cache.Get(ctx, recovery.Key(part, "item-1"))
		require.NoError(t, err)
		assert.False(t, found, part)
	}
}

func TestStashedPricePoolsMergeLimitedQuantities(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.ApplyPrice(ctx, pricePool("item-1", 5))
	require.NoError(t, err)
	_, err = f.engine.ApplyPrice(ctx, pricePool("item-1", 8))
	require.NoError(t, err)

	_, err = f.engine.ApplyProductItem(ctx, productItem("item-1", "product-1"))
	require.NoError(t, err)

	item, err := f.engine.Item(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, item.Price)
	require.Len(t, item.Price.LimitedPrices, 1)
	assert.Equal(t, 5, item.Price.LimitedPrices[0].Quantity)
}

func TestApplyFactForKnownItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.ApplyProductItem(ctx, productItem("item-1", "product-1"))
	require.NoError(t, err)

	outcome, err := f.engine.ApplyBackorder(ctx, catalog.BackorderAvailability{ItemID: "item-1", Available: true})
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)

	product, err := f.engine.Product(ctx, "product-1")
	require.NoError(t, err)
	item, ok := product.Item("item-1")
	require.True(t, ok)
	require.NotNil(t, item.Backorder)
	assert.True(t, item.Backorder.Available)
}

func TestApplyProductItemMovesItemBetweenProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.ApplyProductItem(ctx, productItem("item-1", "product-1"))
	require.NoError(t, err)
	_, err = f.engine.ApplyInventory(ctx, catalog.FullInventory{ItemID: "item-1", PackSize: 6})
	require.NoError(t, err)

	_, err = f.engine.ApplyProductItem(ctx, productItem("item-1", "product-2"))
	require.NoError(t, err)

	previous, err := f.engine.Product(ctx, "product-1")
	require.NoError(t, err)
	assert.Empty(t, previous.Items)

	productID, err := f.engine.ProductOf(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "product-2", productID)

	item, err := f.engine.Item(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, item.Inventory)
	assert.Equal(t, 6, item.Inventory.PackSize)
	assert.Equal(t, "product-2", item.Item.ProductID)
}

// flakyStorage fails the next Put to failKey once.
type flakyStorage struct {
	*storage.MemoryStorage
	mu      sync.Mutex
	failKey string
}

func (s *flakyStorage) failNextPut(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failKey = key
}

func (s *flakyStorage) Put(ctx context.Context, key string, content []byte) error {
	s.mu.Lock()
	fail := key == s.failKey
	if fail {
		s.failKey = ""
	}
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("put %s: disk full", key)
	}
	return s.MemoryStorage.Put(ctx, key, content)
}

func TestMoveSurvivesFailedWrite(t *testing.T) {
	tests := []struct {
		name    string
		failKey string
	}{
		{"new product", "products/product-2"},
		{"old product", "products/product-1"},
		{"item index", "items/item-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &flakyStorage{MemoryStorage: storage.NewMemoryStorage()}
			e := New(store, recovery.NewMemoryCache(time.Hour), Config{HistoryTimezone: storefront.Moscow}, zerolog.Nop(),
				WithClock(func() time.Time { return now }))

			_, err := e.ApplyProductItem(ctx, productItem("item-1", "product-1"))
			require.NoError(t, err)
			_, err = e.ApplyPrice(ctx, pricePool("item-1", 0))
			require.NoError(t, err)
			_, err = e.ApplyInventory(ctx, catalog.FullInventory{ItemID: "item-1", PackSize: 6})
			require.NoError(t, err)

			store.failNextPut(tt.failKey)
			_, err = e.ApplyProductItem(ctx, productItem("item-1", "product-2"))
			require.Error(t, err)

			// the item stays whole in at least one product
			var held []completion.IncompleteProductItem
			for _, id := range []string{"product-1", "product-2"} {
				if p, err := e.Product(ctx, id); err == nil {
					if item, ok := p.Item("item-1"); ok && item.Price != nil && item.Inventory != nil {
						held = append(held, item)
					}
				}
			}
			assert.NotEmpty(t, held)

			_, err = e.ApplyStockBalance(ctx, catalog.StockBalance{ItemID: "item-1"})
			require.NoError(t, err)

			_, err = e.ApplyProductItem(ctx, productItem("item-1", "product-2"))
			require.NoError(t, err)

			productID, err := e.ProductOf(ctx, "item-1")
			require.NoError(t, err)
			assert.Equal(t, "product-2", productID)

			item, err := e.Item(ctx, "item-1")
			require.NoError(t, err)
			require.NotNil(t, item.Price)
			require.NotNil(t, item.Inventory)
			assert.NotNil(t, item.Stock)
			assert.Equal(t, 6, item.Inventory.PackSize)
			assert.Equal(t, "product-2", item.Item.ProductID)

			previous, err := e.Product(ctx, "product-1")
			require.NoError(t, err)
			assert.Empty(t, previous.Items)
		})
	}
}

func TestRemove(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("unknown item drops stash", func(t *testing.T) {
		_, err := f.engine.ApplyStockBalance(ctx, catalog.StockBalance{ItemID: "item-9", Available: 1})
		require.NoError(t, err)

		outcome, err := f.engine.Remove(ctx, "item-9", completion.PartStock)
		require.NoError(t, err)
		assert.Equal(t, Dropped, outcome)

		_, found, err := f.cache.Get(ctx, recovery.Key("stock", "item-9"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("known item clears part", func(t *testing.T) {
		_, err := f.engine.ApplyProductItem(ctx, productItem("item-1", "product-1"))
		require.NoError(t, err)
		_, err = f.engine.ApplyPrice(ctx, pricePool("item-1", 0))
		require.NoError(t, err)

		outcome, err := f.engine.Remove(ctx, "item-1", completion.PartPrice)
		require.NoError(t, err)
		assert.Equal(t, Applied, outcome)

		item, err := f.engine.Item(ctx, "item-1")
		require.NoError(t, err)
		assert.Nil(t, item.Price)
		assert.NotNil(t, item.Item)
	})
}

func TestInvalidFacts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.ApplyProductItem(ctx, catalog.ProductItem{ItemID: "item-1"})
	assert.ErrorIs(t, err, ErrInvalidFact)

	_, err = f.engine.ApplyInventory(ctx, catalog.FullInventory{})
	assert.ErrorIs(t, err, ErrInvalidFact)

	_, err = f.engine.Remove(ctx, "", completion.PartStock)
	assert.ErrorIs(t, err, ErrInvalidFact)
}

func TestExportNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, _, err := f.engine.ExportItem(ctx, "missing", storefront.Moscow, language.Russian)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = f.engine.ExportProduct(ctx, "missing", storefront.Moscow, language.Russian)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, _, err = f.engine.CurrentPrice(ctx, "missing", storefront.Moscow)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestExportProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, id := range []string{"item-1", "item-2"} {
		_, err := f.engine.ApplyProductItem(ctx, productItem(id, "product-1"))
		require.NoError(t, err)
		_, err = f.engine.ApplyInventory(ctx, catalog.FullInventory{ItemID: id})
		require.NoError(t, err)
	}
	_, err := f.engine.ApplyPrice(ctx, pricePool("item-1", 0))
	require.NoError(t, err)

	result, err := f.engine.ExportProduct(ctx, "product-1", storefront.Moscow, language.Russian)
	require.NoError(t, err)
	assert.Equal(t, partial.PartialSuccess, result.Outcome)
	require.NotNil(t, result.Value)
	require.Len(t, result.Value.Variations, 1)
	assert.Equal(t, "item-1", result.Value.Variations[0].ItemID)
	assert.Equal(t, []string{"item-2"}, result.FailedIDs())

	item, failures, err := f.engine.ExportItem(ctx, "item-2", storefront.Moscow, language.Russian)
	require.NoError(t, err)
	assert.Empty(t, item.ItemID)
	require.Len(t, failures, 1)
	require.NotNil(t, failures[0].MissingPart)
	assert.Equal(t, completion.PartPrice, failures[0].MissingPart.Part)

	current, ok, err := f.engine.CurrentPrice(ctx, "item-1", storefront.Moscow)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(100).Equal(current.Base().Value()))
}

func TestRefreshPriceHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.ApplyProductItem(ctx, productItem("item-1", "product-1"))
	require.NoError(t, err)
	_, err = f.engine.ApplyProductItem(ctx, productItem("item-2", "product-1"))
	require.NoError(t, err)
	_, err = f.engine.ApplyPrice(ctx, pricePool("item-1", 0))
	require.NoError(t, err)

	next := now.Add(24 * time.Hour)
	f.engine.now = func() time.Time { return next }

	refreshed, err := f.engine.RefreshPriceHistory(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)

	item, err := f.engine.Item(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Price.SellingPriceHistory.Len())

	_, err = f.engine.RefreshPriceHistory(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestConcurrentFactsForOneProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const items = 20
	var wg sync.WaitGroup
	for i := 0; i < items; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("item-%02d", i)
			_, err := f.engine.ApplyStockBalance(ctx, catalog.StockBalance{ItemID: id, Available: i})
			assert.NoError(t, err)
			_, err = f.engine.ApplyProductItem(ctx, productItem(id, "product-1"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	product, err := f.engine.Product(ctx, "product-1")
	require.NoError(t, err)
	assert.Len(t, product.Items, items)
	for _, item := range product.Items {
		assert.NotNil(t, item.Stock, item.ItemID)
	}
	assert.Zero(t, f.engine.locks.size())
}
