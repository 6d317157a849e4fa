package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price snapshot for a symbol.
// PrevClose carries the period's opening price, matching the /price
// response contract.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	DayHigh   decimal.Decimal `json:"day_high"`
	DayLow    decimal.Decimal `json:"day_low"`
	PrevClose decimal.Decimal `json:"prev_close"`
	Timestamp time.Time       `json:"timestamp"`
}

// HistoricalQuote is one OHLCV period from a range fetch.
type HistoricalQuote struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}
