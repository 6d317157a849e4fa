package config

import "time"

// MarketHours describes the regular trading session for a region.
type MarketHours struct {
	Timezone string `json:"timezone"`
	Open     string `json:"open"`  // local time, HH:MM
	Close    string `json:"close"` // local time, HH:MM
}

// DefaultExchange is used for regions that have no entry in the
// region-to-exchange table.
const DefaultExchange = "NASDAQ"

// marketHours maps region codes to their regular trading sessions.
var marketHours = map[string]MarketHours{
	"US": {Timezone: "America/New_York", Open: "09:30", Close: "16:00"},
	"CA": {Timezone: "America/Toronto", Open: "09:30", Close: "16:00"},
	"GB": {Timezone: "Europe/London", Open: "08:00", Close: "16:30"},
	"DE": {Timezone: "Europe/Berlin", Open: "09:00", Close: "17:30"},
	"FR": {Timezone: "Europe/Paris", Open: "09:00", Close: "17:30"},
	"IN": {Timezone: "Asia/Kolkata", Open: "09:15", Close: "15:30"},
	"JP": {Timezone: "Asia/Tokyo", Open: "09:00", Close: "15:00"},
	"HK": {Timezone: "Asia/Hong_Kong", Open: "09:30", Close: "16:00"},
	"AU": {Timezone: "Australia/Sydney", Open: "10:00", Close: "16:00"},
}

// fallbackExchange maps region codes to the exchange used by the
// secondary screener when the region's own strategies yield nothing.
var fallbackExchange = map[string]string{
	"US": "NASDAQ",
	"CA": "TSX",
	"GB": "LSE",
	"DE": "XETRA",
	"FR": "EURONEXT",
	"IN": "NSE",
	"JP": "TSE",
	"HK": "HKSE",
	"AU": "ASX",
}

// HoursFor returns the trading session for a region.
func HoursFor(region string) (MarketHours, bool) {
	h, ok := marketHours[region]
	return h, ok
}

// ExchangeFor returns the fallback exchange code for a region,
// defaulting to DefaultExchange for unmapped regions.
func ExchangeFor(region string) string {
	if ex, ok := fallbackExchange[region]; ok {
		return ex
	}
	return DefaultExchange
}

// IsMarketOpen reports whether the region's market is inside its regular
// session at the given instant. Unknown regions are treated as closed.
func IsMarketOpen(region string, now time.Time) bool {
	hours, ok := marketHours[region]
	if !ok {
		return false
	}

	loc, err := time.LoadLocation(hours.Timezone)
	if err != nil {
		return false
	}
	local := now.In(loc)

	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}

	open, err := minutesOfDay(hours.Open)
	if err != nil {
		return false
	}
	close, err := minutesOfDay(hours.Close)
	if err != nil {
		return false
	}

	minutes := local.Hour()*60 + local.Minute()
	return minutes >= open && minutes < close
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
