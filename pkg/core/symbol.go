package core

import "github.com/shopspring/decimal"

// TrackedSymbol is the per-pair state kept by the monitor.
// LastRounded is always an exact multiple of Threshold.
type TrackedSymbol struct {
	Pair        string
	Threshold   decimal.Decimal
	LastRounded decimal.Decimal
	Decimals    int
}

// Alert describes a price level to announce
type Alert struct {
	Pair      string
	Price     decimal.Decimal // rounded price shown on the banner
	Actual    decimal.Decimal // price returned by the exchange
	Previous  decimal.Decimal // rounded price before the crossing, zero on startup
	Threshold decimal.Decimal
	Decimals  int
	Initial   bool
}
