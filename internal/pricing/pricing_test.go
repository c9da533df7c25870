package pricing

import (
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/catalog-service/internal/pricehistory"
	"github.com/kosarica/catalog-service/internal/storefront"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func basePrice(id, listID, value string) Price {
	return Price{PriceID: id, PriceListID: listID, Value: dec(value), VatRate: dec("20")}
}

func list(id, value string) ListPrice {
	return ListPrice{Price: basePrice(id, "list", value)}
}

func campaign(id, value string, start, end *time.Time) CampaignPrice {
	p := basePrice(id, "campaign", value)
	p.Start, p.End = start, end
	return CampaignPrice{Price: p}
}

func limited(id, value string, qty int) LimitedPrice {
	return LimitedPrice{Price: basePrice(id, "limited", value), Quantity: qty}
}

func member(id, value string, level MembershipLevel) MemberPrice {
	return MemberPrice{Price: basePrice(id, "members", value), Level: level}
}

func logged(listID, value string, d civil.Date) pricehistory.Entry {
	return pricehistory.Entry{
		Date: d,
		Price: pricehistory.OriginalPrice{
			PriceID:     listID + "-" + value,
			PriceListID: listID,
			Value:       dec(value),
			VatRate:     dec("20"),
		},
	}
}

func TestActiveNow(t *testing.T) {
	tests := []struct {
		name   string
		start  *time.Time
		end    *time.Time
		active bool
	}{
		{"open interval", nil, nil, true},
		{"started", at(-time.Hour), nil, true},
		{"not started", at(time.Hour), nil, false},
		{"ends later", nil, at(time.Hour), true},
		{"ended", nil, at(-time.Hour), false},
		{"starts exactly now", at(0), at(time.Hour), true},
		{"ends exactly now", at(-time.Hour), at(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Price{Start: tt.start, End: tt.end}
			assert.Equal(t, tt.active, ActiveNow(now, p))
		})
	}
}

func TestExpired(t *testing.T) {
	assert.False(t, Expired(now, Price{}))
	assert.False(t, Expired(now, Price{End: at(time.Minute)}))
	assert.True(t, Expired(now, Price{End: at(-time.Minute)}))
	assert.False(t, Expired(now, Price{Start: at(time.Hour)}), "not yet started is not expired")
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		base, price, want string
	}{
		{"100", "80", "20"},
		{"90", "80", "11.11"},
		{"3", "1", "66.67"},
		{"100", "100", "0"},
		{"0", "50", "0"},
		{"100", "120", "0"},
		{"100", "-5", "100"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.base, tt.price), func(t *testing.T) {
			got := Discount(dec(tt.base), dec(tt.price))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCurrentCampaignAgainstListFallback(t *testing.T) {
	pool := ProductItemPrice{
		ItemID:         "item-1",
		ListPrices:     []ListPrice{list("l1", "100")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", at(-time.Hour), at(time.Hour))},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)

	c, isCampaign := current.Public.(CampaignPublicPrice)
	require.True(t, isCampaign, "expected campaign price, got %s", current.Public.Kind())
	assert.Equal(t, "c1", c.Campaign.PriceID)
	assert.True(t, dec("20").Equal(c.Discount))
	assert.True(t, dec("100").Equal(c.HistoricFloor))
}

func TestCurrentNoneWithoutListOrCampaign(t *testing.T) {
	pool := ProductItemPrice{
		LimitedPrices: []LimitedPrice{limited("q1", "50", 3)},
		MemberPrices:  []MemberPrice{member("m1", "40", Gold)},
		ListPrices:    []ListPrice{{Price: Price{PriceID: "old", Value: dec("100"), End: at(-time.Hour)}}},
	}

	_, ok := Current(now, storefront.Moscow, pool)
	assert.False(t, ok)
}

func TestCurrentListWinsWhenCheaper(t *testing.T) {
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "70"), list("l2", "75")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		LimitedPrices:  []LimitedPrice{limited("q1", "50", 4)},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)

	l, isList := current.Public.(ListPublicPrice)
	require.True(t, isList, "a campaign that is not cheaper must not be shown")
	assert.Equal(t, "l1", l.List.PriceID)
}

func TestCurrentCampaignWinsOnEqualValue(t *testing.T) {
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "80")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)
	c, isCampaign := current.Public.(CampaignPublicPrice)
	require.True(t, isCampaign)
	assert.True(t, c.Discount.IsZero())
}

func TestCurrentListOnlyLayersLimitedTiers(t *testing.T) {
	pool := ProductItemPrice{
		ListPrices: []ListPrice{list("l1", "100")},
		LimitedPrices: []LimitedPrice{
			limited("q-90", "90", 5),
			limited("q-70", "70", 3),
			limited("q-sold-out", "60", 0),
			limited("q-120", "120", 10),
		},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)

	chain := Chain(current.Public)
	require.Len(t, chain, 3)

	head, isLimited := chain[0].(LimitedCampaignPublicPrice)
	require.True(t, isLimited)
	assert.Equal(t, "q-70", head.Limited.PriceID)
	assert.Equal(t, 3, head.Limited.Quantity)
	assert.True(t, dec("30").Equal(head.Discount))
	assert.True(t, dec("100").Equal(head.HistoricFloor))

	next, isLimited := chain[1].(LimitedCampaignPublicPrice)
	require.True(t, isLimited)
	assert.Equal(t, "q-90", next.Limited.PriceID)
	assert.True(t, dec("10").Equal(next.Discount))

	assert.Equal(t, KindList, chain[2].Kind())
	assert.Equal(t, KindList, current.Base().Kind())
}

func TestCurrentCampaignOnly(t *testing.T) {
	t.Run("no history means no discount", func(t *testing.T) {
		pool := ProductItemPrice{CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)}}

		current, ok := Current(now, storefront.Moscow, pool)
		require.True(t, ok)
		c := current.Public.(CampaignPublicPrice)
		assert.True(t, c.Discount.IsZero())
		assert.True(t, dec("80").Equal(c.HistoricFloor))
	})

	t.Run("history provides the floor", func(t *testing.T) {
		pool := ProductItemPrice{
			CampaignPrices:      []CampaignPrice{campaign("c1", "80", nil, nil)},
			SellingPriceHistory: pricehistory.NewLog(logged("list", "100", civil.Date{Year: 2024, Month: 3, Day: 10})),
		}

		current, ok := Current(now, storefront.Moscow, pool)
		require.True(t, ok)
		c := current.Public.(CampaignPublicPrice)
		assert.True(t, dec("20").Equal(c.Discount))
	})
}

func TestCurrentHistoricFloorExcludesCampaignList(t *testing.T) {
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "100")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		SellingPriceHistory: pricehistory.NewLog(
			logged("campaign", "75", civil.Date{Year: 2024, Month: 3, Day: 12}),
			logged("list", "90", civil.Date{Year: 2024, Month: 3, Day: 10}),
		),
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)
	c := current.Public.(CampaignPublicPrice)
	assert.True(t, dec("90").Equal(c.HistoricFloor))
	assert.True(t, dec("11.11").Equal(c.Discount))
}

func TestCurrentHistoricFloorUsesStoreLocalDate(t *testing.T) {
	evening := time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "100")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		SellingPriceHistory: pricehistory.NewLog(
			logged("list", "90", civil.Date{Year: 2024, Month: 3, Day: 16}),
		),
	}

	moscow, ok := Current(evening, storefront.Moscow, pool)
	require.True(t, ok)
	assert.True(t, dec("100").Equal(moscow.Public.(CampaignPublicPrice).HistoricFloor),
		"entry dated tomorrow in Moscow must not count")

	vladivostok, ok := Current(evening, storefront.Vladivostok, pool)
	require.True(t, ok)
	assert.True(t, dec("90").Equal(vladivostok.Public.(CampaignPublicPrice).HistoricFloor),
		"it is already the 16th in Vladivostok")
}

func TestCurrentDeduplicatesByEarliestStart(t *testing.T) {
	pool := ProductItemPrice{
		CampaignPrices: []CampaignPrice{
			campaign("late", "80", at(-24*time.Hour), nil),
			campaign("early", "80", at(-48*time.Hour), nil),
		},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)
	assert.Equal(t, "early", current.Public.Source().PriceID)
}

func TestCurrentCampaignWithLimitedTier(t *testing.T) {
	tier := limited("q1", "60", 2)
	tier.VatRate = dec("0")
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "100")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		LimitedPrices:  []LimitedPrice{tier, limited("q2", "85", 5)},
	}
	pool.CampaignPrices[0].VatRate = dec("10")

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)

	head := current.Public.(LimitedCampaignPublicPrice)
	assert.Equal(t, "q1", head.Limited.PriceID)
	assert.True(t, dec("40").Equal(head.Discount))
	assert.True(t, dec("100").Equal(head.HistoricFloor))
	assert.Equal(t, KindCampaign, head.Fallback.Kind())
	assert.True(t, dec("10").Equal(current.VatRate), "VAT follows the base price")
	assert.Len(t, Chain(current.Public), 2)
}

func TestCurrentMemberPrices(t *testing.T) {
	expired := member("gold-old", "60", Gold)
	expired.End = at(-time.Hour)
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "100")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		MemberPrices: []MemberPrice{
			member("std-75", "75", Standard),
			member("std-70", "70", Standard),
			member("gold-85", "85", Gold),
			expired,
		},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)

	require.Len(t, current.Members, 1)
	std, ok := current.Members[Standard]
	require.True(t, ok)
	assert.Equal(t, "std-70", std.Price.PriceID)
	assert.True(t, dec("12.5").Equal(std.DiscountFromPublic))
	assert.True(t, dec("30").Equal(std.DiscountFromList))
	_, hasGold := current.Members[Gold]
	assert.False(t, hasGold)
}

func TestCurrentMemberWithoutListPrice(t *testing.T) {
	pool := ProductItemPrice{
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		MemberPrices:   []MemberPrice{member("g", "60", Gold)},
	}

	current, ok := Current(now, storefront.Moscow, pool)
	require.True(t, ok)
	gold := current.Members[Gold]
	assert.True(t, dec("25").Equal(gold.DiscountFromPublic))
	assert.True(t, gold.DiscountFromList.IsZero())
}

func TestRecordSellingPrice(t *testing.T) {
	pool := ProductItemPrice{
		ListPrices:     []ListPrice{list("l1", "100")},
		CampaignPrices: []CampaignPrice{campaign("c1", "80", nil, nil)},
		LimitedPrices:  []LimitedPrice{limited("q1", "50", 1)},
	}

	recorded := RecordSellingPrice(now, storefront.Moscow, pool)

	latest, ok := recorded.SellingPriceHistory.Latest()
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 15}, latest.Date)
	assert.Equal(t, "c1", latest.Price.PriceID, "limited tiers are never logged")

	again := RecordSellingPrice(now.Add(24*time.Hour), storefront.Moscow, recorded)
	assert.Equal(t, 1, again.SellingPriceHistory.Len(), "unchanged price is not logged twice")
	assert.True(t, pool.SellingPriceHistory.IsEmpty(), "input pool is not modified")
}

func TestRecordSellingPriceWithoutPrice(t *testing.T) {
	old := logged("list", "100", civil.Date{Year: 2024, Month: 1, Day: 1})
	pool := ProductItemPrice{SellingPriceHistory: pricehistory.NewLog(old)}

	recorded := RecordSellingPrice(now, storefront.Moscow, pool)

	entries := recorded.SellingPriceHistory.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 14}, entries[0].Date, "carried forward to the cutoff")
}
