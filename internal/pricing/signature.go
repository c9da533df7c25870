package pricing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

const (
	// SignatureVersion is the current version of the signature algorithm
	SignatureVersion = 1

	// absentSentinel marks an optional field that is not set.
	// An absent discount must not hash the same as a zero discount.
	absentSentinel = "N"
)

// Signature computes a deterministic hash of a resolved price. Two prices with
// the same chain, VAT rate and member prices produce the same signature
// regardless of map iteration order.
func Signature(c CurrentPrice) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "v%d\nvat:%s\n", SignatureVersion, c.VatRate.String())

	for _, p := range Chain(c.Public) {
		src := p.Source()
		discount, floor, quantity := absentSentinel, absentSentinel, absentSentinel
		switch v := p.(type) {
		case CampaignPublicPrice:
			discount, floor = v.Discount.String(), v.HistoricFloor.String()
		case LimitedCampaignPublicPrice:
			discount, floor = v.Discount.String(), v.HistoricFloor.String()
			quantity = fmt.Sprint(v.Limited.Quantity)
		}
		fmt.Fprintf(&buf, "%s:%s:%s:%s:%s:%s:%s\n",
			p.Kind(), src.PriceListID, src.PriceID, src.Value.String(), discount, floor, quantity)
	}

	levels := make([]string, 0, len(c.Members))
	for level := range c.Members {
		levels = append(levels, string(level))
	}
	sort.Strings(levels)
	for _, level := range levels {
		m := c.Members[MembershipLevel(level)]
		fmt.Fprintf(&buf, "member:%s:%s:%s:%s:%s\n",
			level, m.Price.PriceID, m.Price.Value.String(), m.DiscountFromPublic.String(), m.DiscountFromList.String())
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
