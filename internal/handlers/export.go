package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/catalog-service/internal/localization"
	"github.com/kosarica/catalog-service/internal/partial"
	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// ItemExportFailure is returned when an item cannot be exported
type ItemExportFailure struct {
	ItemID string                       `json:"itemId"`
	Errors []localization.FullItemError `json:"errors"`
}

// ProductExportResponse carries the localized product and the errors of the
// items left out of it
type ProductExportResponse struct {
	ProductID string                                  `json:"productId"`
	Outcome   partial.Outcome                         `json:"outcome" enums:"full_success,partial_success,no_success"`
	Product   *localization.ProductView               `json:"product,omitempty"`
	Errors    map[string][]localization.FullItemError `json:"errors,omitempty"`
}

// CurrentPriceResponse is the resolved price of an item in one store
type CurrentPriceResponse struct {
	ItemID    string                   `json:"itemId"`
	Store     storefront.Timezone      `json:"store"`
	Price     pricing.CurrentPriceView `json:"price"`
	Signature string                   `json:"signature"`
}

// ExportItem returns one localized item
// @Summary Export item
// @Description Localizes an item for a store and language. Items missing facts or localized fields are reported with 422.
// @Tags export
// @Produce json
// @Param itemId path string true "Item ID"
// @Param store query string false "Store time zone" Enums(moscow, yekaterinburg, novosibirsk, vladivostok)
// @Param lang query string false "Language tag" default(ru)
// @Success 200 {object} localization.ItemView
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 422 {object} ItemExportFailure
// @Router /internal/export/items/{itemId} [get]
func ExportItem(c *gin.Context) {
	itemID := c.Param("itemId")

	var query StoreQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tz, lang, err := query.resolve()
	if err != nil {
		writeError(c, err)
		return
	}

	item, failures, err := catalogEngine.ExportItem(c.Request.Context(), itemID, tz, lang)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(failures) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ItemExportFailure{ItemID: itemID, Errors: failures})
		return
	}
	c.JSON(http.StatusOK, item.View())
}

// ExportProduct returns a localized product
// @Summary Export product
// @Description Localizes every item of a product. Returns 200 when all items export, 206 when some do and 422 when none do.
// @Tags export
// @Produce json
// @Param productId path string true "Product ID"
// @Param store query string false "Store time zone" Enums(moscow, yekaterinburg, novosibirsk, vladivostok)
// @Param lang query string false "Language tag" default(ru)
// @Success 200 {object} ProductExportResponse
// @Success 206 {object} ProductExportResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 422 {object} ProductExportResponse
// @Router /internal/export/products/{productId} [get]
func ExportProduct(c *gin.Context) {
	productID := c.Param("productId")

	var query StoreQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tz, lang, err := query.resolve()
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := catalogEngine.ExportProduct(c.Request.Context(), productID, tz, lang)
	if err != nil {
		writeError(c, err)
		return
	}

	response := ProductExportResponse{
		ProductID: productID,
		Outcome:   result.Outcome,
		Errors:    result.Errors,
	}
	if result.Value != nil {
		view := result.Value.View()
		response.Product = &view
	}
	c.JSON(exportStatus(result.Outcome), response)
}

func exportStatus(outcome partial.Outcome) int {
	switch outcome {
	case partial.FullSuccess:
		return http.StatusOK
	case partial.PartialSuccess:
		return http.StatusPartialContent
	default:
		return http.StatusUnprocessableEntity
	}
}

// GetCurrentPrice returns the resolved price of an item
// @Summary Get current price
// @Tags prices
// @Produce json
// @Param itemId path string true "Item ID"
// @Param store query string false "Store time zone" Enums(moscow, yekaterinburg, novosibirsk, vladivostok)
// @Success 200 {object} CurrentPriceResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Item not found or no active price"
// @Router /internal/prices/{itemId} [get]
func GetCurrentPrice(c *gin.Context) {
	itemID := c.Param("itemId")

	var query StoreQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tz, _, err := query.resolve()
	if err != nil {
		writeError(c, err)
		return
	}

	current, ok, err := catalogEngine.CurrentPrice(c.Request.Context(), itemID, tz)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active price for item " + itemID})
		return
	}

	c.JSON(http.StatusOK, CurrentPriceResponse{
		ItemID:    itemID,
		Store:     tz,
		Price:     current.View(),
		Signature: pricing.Signature(current),
	})
}
