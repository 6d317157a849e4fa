package marketdata

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidSymbol means the symbol was rejected before any outbound call.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrSourceUnavailable means the upstream source could not be reached or
	// answered with an unexpected status. Distinct from "no data": callers
	// retry or fall through on this, and surface it as a gateway error.
	ErrSourceUnavailable = errors.New("market data source unavailable")
)

// Symbols are expected pre-normalized (trimmed, uppercased) by the caller.
// A leading ^ covers index symbols such as ^GSPC.
var symbolPattern = regexp.MustCompile(`^[\^]?[A-Z0-9][A-Z0-9.=-]{0,11}$`)

// ValidateSymbol rejects malformed symbols with ErrInvalidSymbol.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(symbol) {
		return ErrInvalidSymbol
	}
	return nil
}
