package pricing

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the variant of a resolved public price.
type Kind string

const (
	KindList            Kind = "list"
	KindCampaign        Kind = "campaign"
	KindLimitedCampaign Kind = "limited_campaign"
)

// PublicPrice is the resolved public price of an item. It is one of
// ListPublicPrice, CampaignPublicPrice or LimitedCampaignPublicPrice.
type PublicPrice interface {
	Kind() Kind
	Value() decimal.Decimal
	Source() Price
	isPublicPrice()
}

// ListPublicPrice is a plain, non-discounted list price.
type ListPublicPrice struct {
	List ListPrice
}

func (p ListPublicPrice) Kind() Kind             { return KindList }
func (p ListPublicPrice) Value() decimal.Decimal { return p.List.Value }
func (p ListPublicPrice) Source() Price          { return p.List.Price }
func (ListPublicPrice) isPublicPrice()           {}

// CampaignPublicPrice is a campaign price with its discount against the historic floor.
type CampaignPublicPrice struct {
	Campaign      CampaignPrice
	Discount      decimal.Decimal
	HistoricFloor decimal.Decimal
}

func (p CampaignPublicPrice) Kind() Kind             { return KindCampaign }
func (p CampaignPublicPrice) Value() decimal.Decimal { return p.Campaign.Value }
func (p CampaignPublicPrice) Source() Price          { return p.Campaign.Price }
func (CampaignPublicPrice) isPublicPrice()           {}

// LimitedCampaignPublicPrice is a quantity-limited tier layered on top of a
// more expensive price. Fallback is the price shown once the quantity runs out.
type LimitedCampaignPublicPrice struct {
	Limited       LimitedPrice
	Discount      decimal.Decimal
	HistoricFloor decimal.Decimal
	Fallback      PublicPrice
}

func (p LimitedCampaignPublicPrice) Kind() Kind             { return KindLimitedCampaign }
func (p LimitedCampaignPublicPrice) Value() decimal.Decimal { return p.Limited.Value }
func (p LimitedCampaignPublicPrice) Source() Price          { return p.Limited.Price }
func (LimitedCampaignPublicPrice) isPublicPrice()           {}

// BaseOf follows the fallback chain down to the list or campaign price at its end.
func BaseOf(p PublicPrice) PublicPrice {
	for {
		limited, ok := p.(LimitedCampaignPublicPrice)
		if !ok {
			return p
		}
		p = limited.Fallback
	}
}

// Chain returns the prices of the fallback chain, cheapest first.
func Chain(p PublicPrice) []PublicPrice {
	var out []PublicPrice
	for p != nil {
		out = append(out, p)
		limited, ok := p.(LimitedCampaignPublicPrice)
		if !ok {
			break
		}
		p = limited.Fallback
	}
	return out
}

// PublicPriceView is the wire representation of a PublicPrice.
type PublicPriceView struct {
	Kind          Kind             `json:"kind"`
	PriceID       string           `json:"priceId"`
	PriceListID   string           `json:"priceListId"`
	Value         decimal.Decimal  `json:"value"`
	VatRate       decimal.Decimal  `json:"vatRate"`
	Start         *time.Time       `json:"start,omitempty"`
	End           *time.Time       `json:"end,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	HistoricFloor *decimal.Decimal `json:"historicFloor,omitempty"`
	Quantity      *int             `json:"quantity,omitempty"`
	Fallback      *PublicPriceView `json:"fallback,omitempty"`
}

// ViewOf converts a public price (and its chain) into its wire representation.
func ViewOf(p PublicPrice) *PublicPriceView {
	if p == nil {
		return nil
	}
	src := p.Source()
	view := &PublicPriceView{
		Kind:        p.Kind(),
		PriceID:     src.PriceID,
		PriceListID: src.PriceListID,
		Value:       src.Value,
		VatRate:     src.VatRate,
		Start:       src.Start,
		End:         src.End,
	}
	switch v := p.(type) {
	case CampaignPublicPrice:
		view.Discount = &v.Discount
		view.HistoricFloor = &v.HistoricFloor
	case LimitedCampaignPublicPrice:
		quantity := v.Limited.Quantity
		view.Discount = &v.Discount
		view.HistoricFloor = &v.HistoricFloor
		view.Quantity = &quantity
		view.Fallback = ViewOf(v.Fallback)
	}
	return view
}

func (p ListPublicPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(ViewOf(p))
}

func (p CampaignPublicPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(ViewOf(p))
}

func (p LimitedCampaignPublicPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(ViewOf(p))
}
