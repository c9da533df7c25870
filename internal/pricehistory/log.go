// Package pricehistory keeps the dated log of public selling prices used for the
// "lowest price in the last 30 days" disclosure and for truthful discount baselines.
package pricehistory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/kosarica/catalog-service/internal/storefront"
)

// ComplianceWindowDays is the length of the rolling window the log is trimmed to.
const ComplianceWindowDays = 30

// OriginalPrice is a snapshot of the public price of an item on a given day.
type OriginalPrice struct {
	PriceID     string          `json:"priceId"`
	PriceListID string          `json:"priceListId"`
	Value       decimal.Decimal `json:"value"`
	VatRate     decimal.Decimal `json:"vatRate"`
}

// Equal reports whether two snapshots describe the same price.
func (p OriginalPrice) Equal(o OriginalPrice) bool {
	return p.PriceID == o.PriceID &&
		p.PriceListID == o.PriceListID &&
		p.Value.Equal(o.Value) &&
		p.VatRate.Equal(o.VatRate)
}

// Entry is a single dated log entry.
type Entry struct {
	Date  civil.Date    `json:"date"`
	Price OriginalPrice `json:"price"`
}

// Log maps store-local calendar dates to the price that was public on that day.
// It stores price changes, not daily ticks. The zero value is an empty log.
// Log values are immutable; every operation returns a new Log.
type Log struct {
	entries map[civil.Date]OriginalPrice
}

// NewLog builds a log from entries. Later entries for the same date win.
func NewLog(entries ...Entry) Log {
	m := make(map[civil.Date]OriginalPrice, len(entries))
	for _, e := range entries {
		m[e.Date] = e.Price
	}
	return Log{entries: m}
}

// Len returns the number of entries.
func (l Log) Len() int {
	return len(l.entries)
}

// IsEmpty reports whether the log has no entries.
func (l Log) IsEmpty() bool {
	return len(l.entries) == 0
}

// Get returns the entry stored exactly at date.
func (l Log) Get(date civil.Date) (OriginalPrice, bool) {
	p, ok := l.entries[date]
	return p, ok
}

// Entries returns all entries in ascending date order.
func (l Log) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for d, p := range l.entries {
		out = append(out, Entry{Date: d, Price: p})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Latest returns the most recent entry by date.
func (l Log) Latest() (Entry, bool) {
	var latest Entry
	found := false
	for d, p := range l.entries {
		if !found || d.After(latest.Date) {
			latest = Entry{Date: d, Price: p}
			found = true
		}
	}
	return latest, found
}

func (l Log) clone() map[civil.Date]OriginalPrice {
	m := make(map[civil.Date]OriginalPrice, len(l.entries)+1)
	for d, p := range l.entries {
		m[d] = p
	}
	return m
}

// Add records price at date unless the most recent entry already holds the same price.
// An existing entry at date is overwritten.
func (l Log) Add(date civil.Date, price OriginalPrice) Log {
	if latest, ok := l.Latest(); ok && latest.Price.Equal(price) {
		return l
	}
	m := l.clone()
	m[date] = price
	return Log{entries: m}
}

// RemoveOutdated trims the log to the compliance window ending at the store's local today.
func (l Log) RemoveOutdated(now time.Time, tz storefront.Timezone) Log {
	return l.trim(tz.LocalDate(now))
}

// trim keeps entries dated on or after today-30d. The latest entry before the cutoff
// is carried forward to the cutoff date when no entry exists exactly there, so the
// price that was active on the cutoff day is never lost.
func (l Log) trim(today civil.Date) Log {
	cutoff := today.AddDays(-ComplianceWindowDays)

	m := make(map[civil.Date]OriginalPrice, len(l.entries))
	var carried *Entry
	for d, p := range l.entries {
		if d.Before(cutoff) {
			if carried == nil || d.After(carried.Date) {
				carried = &Entry{Date: d, Price: p}
			}
			continue
		}
		m[d] = p
	}

	if _, ok := m[cutoff]; !ok && carried != nil {
		m[cutoff] = carried.Price
	}
	return Log{entries: m}
}

// FindLowestOriginalPrice returns the lowest price logged within the compliance window
// ending at today, ignoring entries of excludedPriceListID. Ties keep the earliest entry.
func (l Log) FindLowestOriginalPrice(today civil.Date, excludedPriceListID string) (OriginalPrice, bool) {
	var lowest OriginalPrice
	found := false
	for _, e := range l.trim(today).Entries() {
		if e.Date.After(today) || e.Price.PriceListID == excludedPriceListID {
			continue
		}
		if !found || e.Price.Value.LessThan(lowest.Value) {
			lowest = e.Price
			found = true
		}
	}
	return lowest, found
}

// MarshalJSON encodes the log as an array of entries in date order.
func (l Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Entries())
}

// UnmarshalJSON decodes an array of entries.
func (l *Log) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode price log: %w", err)
	}
	*l = NewLog(entries...)
	return nil
}
