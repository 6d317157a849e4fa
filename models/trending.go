package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendingTicker is one entry of a trending list. When enrichment fails
// for a symbol only Symbol is populated and the pointer fields stay nil.
type TrendingTicker struct {
	Symbol    string           `json:"symbol"`
	Price     *decimal.Decimal `json:"price"`
	DayHigh   *decimal.Decimal `json:"day_high"`
	DayLow    *decimal.Decimal `json:"day_low"`
	PrevClose *decimal.Decimal `json:"prev_close"`
	Timestamp *time.Time       `json:"timestamp"`
}

// TickerFromQuote builds a fully populated trending entry from a quote.
func TickerFromQuote(q Quote) TrendingTicker {
	price := q.Price
	high := q.DayHigh
	low := q.DayLow
	prev := q.PrevClose
	ts := q.Timestamp
	return TrendingTicker{
		Symbol:    q.Symbol,
		Price:     &price,
		DayHigh:   &high,
		DayLow:    &low,
		PrevClose: &prev,
		Timestamp: &ts,
	}
}
