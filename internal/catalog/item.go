// Package catalog defines the upstream facts that describe a catalog item.
package catalog

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// LocalizedText holds one value per language.
type LocalizedText map[language.Tag]string

// Get returns the text for lang.
func (t LocalizedText) Get(lang language.Tag) (string, bool) {
	v, ok := t[lang]
	return v, ok
}

// SeoData is the search-engine metadata of an item in one language.
type SeoData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Dimensions are the physical attributes of an item. FreightClassText is the raw
// value sent by the item source; FreightClass is its normalized form.
type Dimensions struct {
	Weight           decimal.Decimal `json:"weight"`
	Length           decimal.Decimal `json:"length"`
	Width            decimal.Decimal `json:"width"`
	Height           decimal.Decimal `json:"height"`
	FreightClassText string          `json:"freightClassText,omitempty"`
	FreightClass     *int            `json:"freightClass,omitempty"`
}

// ProductItem is the raw metadata record of a sellable variation of a product.
type ProductItem struct {
	ItemID                 string                   `json:"itemId"`
	ProductID              string                   `json:"productId"`
	Sku                    string                   `json:"sku"`
	ProTerm                LocalizedText            `json:"proTerm"`
	FullReview             LocalizedText            `json:"fullReview"`
	ShortDescription       LocalizedText            `json:"shortDescription"`
	Seo                    map[language.Tag]SeoData `json:"seo"`
	ManufacturerPartNumber *string                  `json:"manufacturerPartNumber,omitempty"`
	Dimensions             Dimensions               `json:"dimensions"`
	Virtual                bool                     `json:"virtual"`
}

// FullInventory is the logistics record of an item. FreightClassDerived is set
// when FreightClass was filled in from the item dimensions rather than sent upstream.
type FullInventory struct {
	ItemID              string `json:"itemId"`
	Purchasable         bool   `json:"purchasable"`
	MinOrderQuantity    int    `json:"minOrderQuantity"`
	PackSize            int    `json:"packSize"`
	FreightClass        *int   `json:"freightClass,omitempty"`
	FreightClassDerived bool   `json:"freightClassDerived,omitempty"`
}

// ParseFreightClass reads the leading integer of a raw freight class value.
// Anything unparsable yields 0.
func ParseFreightClass(text string) int {
	text = strings.TrimSpace(text)
	end := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(text)
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return n
}
