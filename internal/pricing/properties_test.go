package pricing

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/kosarica/catalog-service/internal/storefront"
)

func poolOf(lists, campaigns, tiers []int64) ProductItemPrice {
	pool := ProductItemPrice{ItemID: "item"}
	for i, v := range lists {
		pool.ListPrices = append(pool.ListPrices, list(fmt.Sprintf("l%d", i), fmt.Sprint(v)))
	}
	for i, v := range campaigns {
		pool.CampaignPrices = append(pool.CampaignPrices, campaign(fmt.Sprintf("c%d", i), fmt.Sprint(v), nil, nil))
	}
	for i, v := range tiers {
		pool.LimitedPrices = append(pool.LimitedPrices, limited(fmt.Sprintf("q%d", i), fmt.Sprint(v), i+1))
	}
	return pool
}

func minOf(values []int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func TestPricingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	values := gen.SliceOf(gen.Int64Range(1, 500))

	properties.Property("a price exists iff a list or campaign price is active", prop.ForAll(
		func(lists, campaigns, tiers []int64) bool {
			_, ok := Current(now, storefront.Moscow, poolOf(lists, campaigns, tiers))
			return ok == (len(lists) > 0 || len(campaigns) > 0)
		},
		values, values, values,
	))

	properties.Property("a cheaper list price is never shown as a campaign", prop.ForAll(
		func(lists, campaigns, tiers []int64) bool {
			if len(lists) == 0 || len(campaigns) == 0 || minOf(lists) >= minOf(campaigns) {
				return true
			}
			current, ok := Current(now, storefront.Moscow, poolOf(lists, campaigns, tiers))
			return ok && current.Public.Kind() == KindList
		},
		values, values, values,
	))

	properties.Property("every chain link is cheaper than its fallback", prop.ForAll(
		func(lists, campaigns, tiers []int64) bool {
			current, ok := Current(now, storefront.Moscow, poolOf(lists, campaigns, tiers))
			if !ok {
				return true
			}
			chain := Chain(current.Public)
			for i := 1; i < len(chain); i++ {
				if !chain[i-1].Value().LessThan(chain[i].Value()) {
					return false
				}
			}
			return chain[len(chain)-1].Kind() != KindLimitedCampaign
		},
		values, values, values,
	))

	properties.Property("discount stays within [0, 100] with two decimals", prop.ForAll(
		func(base, price int64) bool {
			d := Discount(decimal.NewFromInt(base), decimal.New(price, -2))
			return !d.IsNegative() && d.LessThanOrEqual(hundred) && d.Equal(d.Round(2))
		},
		gen.Int64Range(0, 10000), gen.Int64Range(-1000, 2000000),
	))

	properties.Property("discount of a price against itself is zero", prop.ForAll(
		func(base int64) bool {
			v := decimal.New(base, -2)
			return Discount(v, v).IsZero()
		},
		gen.Int64Range(-100000, 100000),
	))

	properties.TestingRun(t)
}
