package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/engine"
	"github.com/kosarica/catalog-service/internal/pricing"
)

// FactResponse reports what happened to an inbound fact
type FactResponse struct {
	ItemID  string         `json:"itemId"`
	Fact    string         `json:"fact"`
	Outcome engine.Outcome `json:"outcome" enums:"applied,stashed,dropped"`
}

// PostProductItem stores the metadata of an item
// @Summary Store product item
// @Description Stores item metadata under its product and replays facts received before the item was known
// @Tags facts
// @Accept json
// @Produce json
// @Param item body catalog.ProductItem true "Product item"
// @Success 200 {object} FactResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/facts/items [post]
func PostProductItem(c *gin.Context) {
	var item catalog.ProductItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := catalogEngine.ApplyProductItem(c.Request.Context(), item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FactResponse{ItemID: item.ItemID, Fact: string(completion.PartProductItem), Outcome: outcome})
}

// PutPrice stores the price pool of an item
// @Summary Store item price pool
// @Tags facts
// @Accept json
// @Produce json
// @Param itemId path string true "Item ID"
// @Param price body pricing.ProductItemPrice true "Price pool"
// @Success 200 {object} FactResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/facts/items/{itemId}/price [put]
func PutPrice(c *gin.Context) {
	var pool pricing.ProductItemPrice
	putFact(c, completion.PartPrice, &pool, &pool.ItemID, func(ctx context.Context) (engine.Outcome, error) {
		return catalogEngine.ApplyPrice(ctx, pool)
	})
}

// PutInventory stores the inventory of an item
// @Summary Store item inventory
// @Tags facts
// @Accept json
// @Produce json
// @Param itemId path string true "Item ID"
// @Param inventory body catalog.FullInventory true "Inventory"
// @Success 200 {object} FactResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/facts/items/{itemId}/inventory [put]
func PutInventory(c *gin.Context) {
	var inventory catalog.FullInventory
	putFact(c, completion.PartInventory, &inventory, &inventory.ItemID, func(ctx context.Context) (engine.Outcome, error) {
		return catalogEngine.ApplyInventory(ctx, inventory)
	})
}

// PutStockBalance stores the stock balance of an item
// @Summary Store item stock balance
// @Tags facts
// @Accept json
// @Produce json
// @Param itemId path string true "Item ID"
// @Param stock body catalog.StockBalance true "Stock balance"
// @Success 200 {object} FactResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/facts/items/{itemId}/stock [put]
func PutStockBalance(c *gin.Context) {
	var balance catalog.StockBalance
	putFact(c, completion.PartStock, &balance, &balance.ItemID, func(ctx context.Context) (engine.Outcome, error) {
		return catalogEngine.ApplyStockBalance(ctx, balance)
	})
}

// PutBackorder stores the backorder availability of an item
// @Summary Store item backorder availability
// @Tags facts
// @Accept json
// @Produce json
// @Param itemId path string true "Item ID"
// @Param backorder body catalog.BackorderAvailability true "Backorder availability"
// @Success 200 {object} FactResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/facts/items/{itemId}/backorder [put]
func PutBackorder(c *gin.Context) {
	var backorder catalog.BackorderAvailability
	putFact(c, completion.PartBackorder, &backorder, &backorder.ItemID, func(ctx context.Context) (engine.Outcome, error) {
		return catalogEngine.ApplyBackorder(ctx, backorder)
	})
}

// putFact binds the body into fact, reconciles its item id with the path and applies it.
func putFact(c *gin.Context, part completion.Part, fact any, itemID *string, apply func(context.Context) (engine.Outcome, error)) {
	pathID := c.Param("itemId")
	if err := c.ShouldBindJSON(fact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch *itemID {
	case "":
		*itemID = pathID
	case pathID:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("body itemId %q does not match path itemId %q", *itemID, pathID),
		})
		return
	}

	outcome, err := apply(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FactResponse{ItemID: pathID, Fact: string(part), Outcome: outcome})
}

// DeleteFact removes one part of an item
// @Summary Remove item fact
// @Description Clears one part of an item, or drops the stashed fact when the item is not known yet
// @Tags facts
// @Produce json
// @Param itemId path string true "Item ID"
// @Param part path string true "Fact kind" Enums(product_item, price, inventory, stock, backorder)
// @Success 200 {object} FactResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/facts/items/{itemId}/{part} [delete]
func DeleteFact(c *gin.Context) {
	itemID := c.Param("itemId")
	part, err := completion.ParsePart(c.Param("part"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := catalogEngine.Remove(c.Request.Context(), itemID, part)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FactResponse{ItemID: itemID, Fact: string(part), Outcome: outcome})
}
