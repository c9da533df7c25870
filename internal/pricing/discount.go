package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Discount returns the percentage price is below base, rounded to 2 decimals
// and clamped to [0, 100]. A zero base yields 0.
func Discount(base, price decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	d := hundred.Sub(price.Div(base).Mul(hundred)).Round(2)
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
