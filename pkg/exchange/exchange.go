// Package exchange holds exchange-independent helpers for trading pairs.
package exchange

import "errors"

// Common errors
var (
	ErrInvalidPair   = errors.New("invalid pair")
	ErrPriceNotFound = errors.New("price not found")
	ErrInvalidPrice  = errors.New("invalid price")
)

// DefaultQuote is appended to symbols configured without a quote asset
const DefaultQuote = "USDT"
