package catalog

import (
	"time"

	"cloud.google.com/go/civil"
)

// StockBalance is the warehouse balance of an item.
type StockBalance struct {
	ItemID    string    `json:"itemId"`
	Available int       `json:"available"`
	Reserved  int       `json:"reserved"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BackorderAvailability tells whether an out-of-stock item can still be ordered.
type BackorderAvailability struct {
	ItemID       string      `json:"itemId"`
	Available    bool        `json:"available"`
	ExpectedDate *civil.Date `json:"expectedDate,omitempty"`
}

// StockStatus tags the variant of an ItemStock.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusBackorder  StockStatus = "backorder"
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusNotTracked StockStatus = "not_tracked"
)

// ItemStock is the availability shown for an item. It is one of InStock,
// Backorder, OutOfStock or NotTracked.
type ItemStock interface {
	Status() StockStatus
	isItemStock()
}

type InStock struct {
	Quantity int
}

type Backorder struct {
	ExpectedDate *civil.Date
}

type OutOfStock struct{}

// NotTracked is the availability of items without a stock balance, such as
// virtual items and bundles.
type NotTracked struct{}

func (InStock) Status() StockStatus    { return StatusInStock }
func (Backorder) Status() StockStatus  { return StatusBackorder }
func (OutOfStock) Status() StockStatus { return StatusOutOfStock }
func (NotTracked) Status() StockStatus { return StatusNotTracked }

func (InStock) isItemStock()    {}
func (Backorder) isItemStock()  {}
func (OutOfStock) isItemStock() {}
func (NotTracked) isItemStock() {}

// ResolveStock derives the availability of an item from its optional balance
// and backorder records.
func ResolveStock(balance *StockBalance, backorder *BackorderAvailability) ItemStock {
	switch {
	case balance != nil && balance.Available > 0:
		return InStock{Quantity: balance.Available}
	case backorder != nil && backorder.Available:
		return Backorder{ExpectedDate: backorder.ExpectedDate}
	case balance == nil:
		return NotTracked{}
	default:
		return OutOfStock{}
	}
}

// StockView is the wire representation of an ItemStock.
type StockView struct {
	Status       StockStatus `json:"status"`
	Quantity     *int        `json:"quantity,omitempty"`
	ExpectedDate *civil.Date `json:"expectedDate,omitempty"`
}

// ViewOfStock converts s into its wire representation.
func ViewOfStock(s ItemStock) StockView {
	view := StockView{Status: s.Status()}
	switch v := s.(type) {
	case InStock:
		q := v.Quantity
		view.Quantity = &q
	case Backorder:
		view.ExpectedDate = v.ExpectedDate
	}
	return view
}
