package catalog

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseFreightClass(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"55", 55},
		{" 70 ", 70},
		{"125 (oversized)", 125},
		{"92.5", 92},
		{"class 60", 0},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFreightClass(tt.input))
		})
	}
}

func TestResolveStock(t *testing.T) {
	expected := civil.Date{Year: 2024, Month: 4, Day: 1}

	tests := []struct {
		name      string
		balance   *StockBalance
		backorder *BackorderAvailability
		want      ItemStock
	}{
		{
			name:      "in stock",
			balance:   &StockBalance{Available: 7},
			backorder: &BackorderAvailability{Available: true},
			want:      InStock{Quantity: 7},
		},
		{
			name:      "backorder",
			balance:   &StockBalance{Available: 0},
			backorder: &BackorderAvailability{Available: true, ExpectedDate: &expected},
			want:      Backorder{ExpectedDate: &expected},
		},
		{
			name:      "backorder without balance",
			backorder: &BackorderAvailability{Available: true},
			want:      Backorder{},
		},
		{
			name: "not tracked",
			want: NotTracked{},
		},
		{
			name:      "out of stock",
			balance:   &StockBalance{Available: 0, Reserved: 3},
			backorder: &BackorderAvailability{Available: false},
			want:      OutOfStock{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStock(tt.balance, tt.backorder))
		})
	}
}

func TestViewOfStock(t *testing.T) {
	view := ViewOfStock(InStock{Quantity: 4})
	require.NotNil(t, view.Quantity)
	assert.Equal(t, 4, *view.Quantity)
	assert.Equal(t, StatusInStock, view.Status)

	assert.Equal(t, StockView{Status: StatusNotTracked}, ViewOfStock(NotTracked{}))
}

func TestProductItemLocalizedJSON(t *testing.T) {
	raw := `{
		"itemId": "item-1",
		"productId": "product-1",
		"sku": "SKU-1",
		"proTerm": {"ru": "Дрель", "en": "Drill"},
		"seo": {"en": {"title": "Drill", "description": "A drill"}}
	}`

	var item ProductItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	text, ok := item.ProTerm.Get(language.Russian)
	require.True(t, ok)
	assert.Equal(t, "Дрель", text)
	assert.Equal(t, "A drill", item.Seo[language.English].Description)

	_, ok = item.ProTerm.Get(language.German)
	assert.False(t, ok)
}
