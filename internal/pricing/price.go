// Package pricing resolves the publicly displayed price of a catalog item from its
// competing price lists and computes discounts against the 30-day historic floor.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kosarica/catalog-service/internal/pricehistory"
)

// Price is a single price row of a price list. Start and End bound the activation
// window; a missing bound leaves that side open.
type Price struct {
	PriceID     string          `json:"priceId"`
	PriceListID string          `json:"priceListId"`
	Value       decimal.Decimal `json:"value"`
	VatRate     decimal.Decimal `json:"vatRate"`
	Start       *time.Time      `json:"start,omitempty"`
	End         *time.Time      `json:"end,omitempty"`
}

// Original snapshots the price for the selling price log.
func (p Price) Original() pricehistory.OriginalPrice {
	return pricehistory.OriginalPrice{
		PriceID:     p.PriceID,
		PriceListID: p.PriceListID,
		Value:       p.Value,
		VatRate:     p.VatRate,
	}
}

// ActiveNow reports whether price is active at now.
func ActiveNow(now time.Time, price Price) bool {
	if price.Start != nil && price.Start.After(now) {
		return false
	}
	if price.End != nil && price.End.Before(now) {
		return false
	}
	return true
}

// Expired reports whether price has an end that already passed.
func Expired(now time.Time, price Price) bool {
	return price.End != nil && price.End.Before(now)
}

// ListPrice is the regular, non-discounted price of an item.
type ListPrice struct {
	Price
}

// CampaignPrice is a promotional price.
type CampaignPrice struct {
	Price
}

// LimitedPrice is a campaign price capped by the remaining purchasable quantity.
type LimitedPrice struct {
	Price
	Quantity int `json:"quantity"`
}

// MembershipLevel is a loyalty program tier.
type MembershipLevel string

const (
	Standard MembershipLevel = "standard"
	Gold     MembershipLevel = "gold"
)

// MembershipLevels lists every membership tier.
var MembershipLevels = []MembershipLevel{Standard, Gold}

// ParseMembershipLevel parses a tier name.
func ParseMembershipLevel(s string) (MembershipLevel, error) {
	switch MembershipLevel(s) {
	case Standard, Gold:
		return MembershipLevel(s), nil
	default:
		return "", fmt.Errorf("unknown membership level %q", s)
	}
}

// MemberPrice is a price reserved for members of a given tier.
type MemberPrice struct {
	Price
	Level MembershipLevel `json:"level"`
}

// ProductItemPrice is the price pool of one catalog item.
type ProductItemPrice struct {
	ItemID              string           `json:"itemId"`
	ListPrices          []ListPrice      `json:"listPrices"`
	CampaignPrices      []CampaignPrice  `json:"campaignPrices"`
	LimitedPrices       []LimitedPrice   `json:"limitedPrices"`
	MemberPrices        []MemberPrice    `json:"memberPrices"`
	SellingPriceHistory pricehistory.Log `json:"sellingPriceHistory"`
}
