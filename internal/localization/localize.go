// Package localization projects complete catalog items into the per-store,
// per-language view served to consumers, accumulating every validation error.
package localization

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/pricing"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// LocalizedCompleteItem is a complete item projected for one store and language.
type LocalizedCompleteItem struct {
	ItemID                 string
	ProductID              string
	Sku                    string
	Language               language.Tag
	Timezone               storefront.Timezone
	ProTerm                string
	FullReview             string
	ShortDescription       string
	Seo                    catalog.SeoData
	ManufacturerPartNumber string
	Dimensions             catalog.Dimensions
	Virtual                bool
	Price                  pricing.CurrentPrice
	Stock                  catalog.ItemStock
}

// ItemView is the wire representation of a LocalizedCompleteItem.
type ItemView struct {
	ItemID                 string                   `json:"itemId"`
	ProductID              string                   `json:"productId"`
	Sku                    string                   `json:"sku"`
	Language               string                   `json:"language"`
	Timezone               string                   `json:"timezone"`
	ProTerm                string                   `json:"proTerm"`
	FullReview             string                   `json:"fullReview"`
	ShortDescription       string                   `json:"shortDescription"`
	Seo                    catalog.SeoData          `json:"seo"`
	ManufacturerPartNumber string                   `json:"manufacturerPartNumber"`
	Dimensions             catalog.Dimensions       `json:"dimensions"`
	Virtual                bool                     `json:"virtual"`
	Price                  pricing.CurrentPriceView `json:"price"`
	PriceSignature         string                   `json:"priceSignature"`
	Stock                  catalog.StockView        `json:"stock"`
}

// View converts the item into its wire representation.
func (l LocalizedCompleteItem) View() ItemView {
	return ItemView{
		ItemID:                 l.ItemID,
		ProductID:              l.ProductID,
		Sku:                    l.Sku,
		Language:               l.Language.String(),
		Timezone:               l.Timezone.String(),
		ProTerm:                l.ProTerm,
		FullReview:             l.FullReview,
		ShortDescription:       l.ShortDescription,
		Seo:                    l.Seo,
		ManufacturerPartNumber: l.ManufacturerPartNumber,
		Dimensions:             l.Dimensions,
		Virtual:                l.Virtual,
		Price:                  l.Price.View(),
		PriceSignature:         pricing.Signature(l.Price),
		Stock:                  catalog.ViewOfStock(l.Stock),
	}
}

func (l LocalizedCompleteItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.View())
}

// LocalizeCompleteItem projects item for the store timezone tz and language lang.
// Every missing field is reported together with a missing active price.
func LocalizeCompleteItem(now time.Time, tz storefront.Timezone, lang language.Tag, item completion.CompleteProductItem) (LocalizedCompleteItem, *ItemLocalizationError) {
	meta := item.Item
	v := validator{itemID: meta.ItemID, lang: lang}

	proTerm := v.text(FieldProTerm, meta.ProTerm)
	fullReview := v.text(FieldFullReview, meta.FullReview)
	shortDescription := v.text(FieldShortDescription, meta.ShortDescription)
	seo, ok := meta.Seo[lang]
	if !ok {
		v.fail(FieldSeo)
	}
	var mpn string
	if meta.ManufacturerPartNumber == nil || strings.TrimSpace(*meta.ManufacturerPartNumber) == "" {
		v.fail(FieldManufacturerPartNumber)
	} else {
		mpn = normalize(*meta.ManufacturerPartNumber)
	}

	price, hasPrice := pricing.Current(now, tz, item.Price)

	if len(v.errors) > 0 || !hasPrice {
		return LocalizedCompleteItem{}, &ItemLocalizationError{
			ItemID:        meta.ItemID,
			Fields:        v.errors,
			NoActivePrice: !hasPrice,
		}
	}

	seo.Title = normalize(seo.Title)
	seo.Description = normalize(seo.Description)

	return LocalizedCompleteItem{
		ItemID:                 meta.ItemID,
		ProductID:              meta.ProductID,
		Sku:                    meta.Sku,
		Language:               lang,
		Timezone:               tz,
		ProTerm:                proTerm,
		FullReview:             fullReview,
		ShortDescription:       shortDescription,
		Seo:                    seo,
		ManufacturerPartNumber: mpn,
		Dimensions:             meta.Dimensions,
		Virtual:                meta.Virtual,
		Price:                  price,
		Stock:                  item.StockStatus(),
	}, nil
}

// validator accumulates field errors of one item instead of stopping at the first.
type validator struct {
	itemID string
	lang   language.Tag
	errors []ProductItemLocalizationError
}

func (v *validator) fail(field Field) {
	v.errors = append(v.errors, ProductItemLocalizationError{ItemID: v.itemID, Field: field, Language: v.lang})
}

func (v *validator) text(field Field, text catalog.LocalizedText) string {
	s, ok := text.Get(v.lang)
	if !ok || strings.TrimSpace(s) == "" {
		v.fail(field)
		return ""
	}
	return normalize(s)
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
