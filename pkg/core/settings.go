package core

import "github.com/shopspring/decimal"

// TokenSettings is a tracked symbol as written in the configuration.
// A nil Threshold means it is derived from the first fetched price.
type TokenSettings struct {
	Symbol    string
	Threshold *decimal.Decimal
}

// HasThreshold reports whether the threshold was configured explicitly
func (t TokenSettings) HasThreshold() bool { return t.Threshold != nil }
