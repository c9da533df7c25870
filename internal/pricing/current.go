package pricing

import (
	"encoding/json"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/kosarica/catalog-service/internal/pricehistory"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// MemberCurrentPrice is the resolved member price of one tier.
type MemberCurrentPrice struct {
	Price              MemberPrice     `json:"price"`
	DiscountFromPublic decimal.Decimal `json:"discountFromPublic"`
	DiscountFromList   decimal.Decimal `json:"discountFromList"`
}

// CurrentPrice is the resolved, displayable price of an item at a given instant.
// It is derived from a ProductItemPrice and never persisted.
type CurrentPrice struct {
	Public  PublicPrice
	VatRate decimal.Decimal
	Members map[MembershipLevel]MemberCurrentPrice
}

// Base returns the list or campaign price at the end of the public price chain.
func (c CurrentPrice) Base() PublicPrice {
	return BaseOf(c.Public)
}

// CurrentPriceView is the wire representation of a CurrentPrice.
type CurrentPriceView struct {
	Public  *PublicPriceView                       `json:"public"`
	VatRate decimal.Decimal                        `json:"vatRate"`
	Members map[MembershipLevel]MemberCurrentPrice `json:"members"`
}

// View converts the price into its wire representation.
func (c CurrentPrice) View() CurrentPriceView {
	members := c.Members
	if members == nil {
		members = map[MembershipLevel]MemberCurrentPrice{}
	}
	return CurrentPriceView{
		Public:  ViewOf(c.Public),
		VatRate: c.VatRate,
		Members: members,
	}
}

func (c CurrentPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.View())
}

// Current resolves the public price of pool at now, using tz to determine the
// store-local "today" for the historic floor lookup. It returns false when
// neither a list nor a campaign price is active.
func Current(now time.Time, tz storefront.Timezone, pool ProductItemPrice) (CurrentPrice, bool) {
	lists := activeLists(now, pool.ListPrices)
	campaigns := distinctByValue(activeCampaigns(now, pool.CampaignPrices), func(c CampaignPrice) Price { return c.Price })
	limited := distinctByValue(activeLimited(now, pool.LimitedPrices), func(l LimitedPrice) Price { return l.Price })

	lowestList, hasList := lowest(lists, func(l ListPrice) decimal.Decimal { return l.Value })
	lowestCampaign, hasCampaign := lowest(campaigns, func(c CampaignPrice) decimal.Decimal { return c.Value })

	today := tz.LocalDate(now)
	history := pool.SellingPriceHistory.RemoveOutdated(now, tz)

	var public PublicPrice
	switch {
	case !hasList && !hasCampaign:
		return CurrentPrice{}, false

	case hasList && !hasCampaign:
		public = layerLimited(ListPublicPrice{List: lowestList}, limited, func(tier LimitedPrice) decimal.Decimal {
			return historicFloor(history, today, tier.PriceListID, lowestList.Value)
		})

	case !hasList && hasCampaign:
		floor := historicFloor(history, today, lowestCampaign.PriceListID, lowestCampaign.Value)
		public = layerLimited(campaignPublic(lowestCampaign, floor), limited, constantFloor(floor))

	case lowestList.Value.LessThan(lowestCampaign.Value):
		public = ListPublicPrice{List: lowestList}

	default:
		floor := historicFloor(history, today, lowestCampaign.PriceListID, lowestList.Value)
		public = layerLimited(campaignPublic(lowestCampaign, floor), limited, constantFloor(floor))
	}

	base := BaseOf(public)
	return CurrentPrice{
		Public:  public,
		VatRate: base.Source().VatRate,
		Members: resolveMembers(now, pool.MemberPrices, base.Value(), lowestList, hasList),
	}, true
}

func campaignPublic(c CampaignPrice, floor decimal.Decimal) CampaignPublicPrice {
	return CampaignPublicPrice{
		Campaign:      c,
		Discount:      Discount(floor, c.Value),
		HistoricFloor: floor,
	}
}

// historicFloor returns the lowest logged price outside excludedPriceListID, or fallback.
func historicFloor(history pricehistory.Log, today civil.Date, excludedPriceListID string, fallback decimal.Decimal) decimal.Decimal {
	if p, ok := history.FindLowestOriginalPrice(today, excludedPriceListID); ok {
		return p.Value
	}
	return fallback
}

func constantFloor(floor decimal.Decimal) func(LimitedPrice) decimal.Decimal {
	return func(LimitedPrice) decimal.Decimal { return floor }
}

// layerLimited chains every limited tier cheaper than the price beneath it on top
// of base. The returned head is the cheapest tier.
func layerLimited(base PublicPrice, tiers []LimitedPrice, floorOf func(LimitedPrice) decimal.Decimal) PublicPrice {
	sorted := make([]LimitedPrice, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.GreaterThan(sorted[j].Value)
	})

	current := base
	for _, tier := range sorted {
		if !tier.Value.LessThan(current.Value()) {
			continue
		}
		floor := floorOf(tier)
		current = LimitedCampaignPublicPrice{
			Limited:       tier,
			Discount:      Discount(floor, tier.Value),
			HistoricFloor: floor,
			Fallback:      current,
		}
	}
	return current
}

func resolveMembers(now time.Time, prices []MemberPrice, public decimal.Decimal, list ListPrice, hasList bool) map[MembershipLevel]MemberCurrentPrice {
	best := make(map[MembershipLevel]MemberPrice)
	for _, m := range prices {
		if !ActiveNow(now, m.Price) || !m.Value.LessThan(public) {
			continue
		}
		if cur, ok := best[m.Level]; !ok || m.Value.LessThan(cur.Value) {
			best[m.Level] = m
		}
	}

	out := make(map[MembershipLevel]MemberCurrentPrice, len(best))
	for level, m := range best {
		fromList := decimal.Zero
		if hasList {
			fromList = Discount(list.Value, m.Value)
		}
		out[level] = MemberCurrentPrice{
			Price:              m,
			DiscountFromPublic: Discount(public, m.Value),
			DiscountFromList:   fromList,
		}
	}
	return out
}

func activeLists(now time.Time, prices []ListPrice) []ListPrice {
	var out []ListPrice
	for _, p := range prices {
		if ActiveNow(now, p.Price) {
			out = append(out, p)
		}
	}
	return out
}

func activeCampaigns(now time.Time, prices []CampaignPrice) []CampaignPrice {
	var out []CampaignPrice
	for _, p := range prices {
		if ActiveNow(now, p.Price) {
			out = append(out, p)
		}
	}
	return out
}

func activeLimited(now time.Time, prices []LimitedPrice) []LimitedPrice {
	var out []LimitedPrice
	for _, p := range prices {
		if p.Quantity > 0 && ActiveNow(now, p.Price) {
			out = append(out, p)
		}
	}
	return out
}

// distinctByValue keeps the earliest-starting price of each distinct value.
// Prices without a start sort first.
func distinctByValue[T any](prices []T, price func(T) Price) []T {
	sorted := make([]T, len(prices))
	copy(sorted, prices)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := price(sorted[i]).Start, price(sorted[j]).Start
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	var out []T
	for _, candidate := range sorted {
		value := price(candidate).Value
		seen := false
		for _, kept := range out {
			if price(kept).Value.Equal(value) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, candidate)
		}
	}
	return out
}

// lowest returns the first element with the minimum value.
func lowest[T any](items []T, value func(T) decimal.Decimal) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	for _, item := range items[1:] {
		if value(item).LessThan(value(best)) {
			best = item
		}
	}
	return best, true
}
