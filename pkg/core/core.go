// Package core holds the domain types and the interfaces shared between the
// exchange, rendering, notification and monitor packages.
package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Feeder returns the latest traded price of a BASE/QUOTE pair
type Feeder interface {
	LastPrice(ctx context.Context, pair string) (decimal.Decimal, error)
}

// Renderer turns an alert into a banner image
type Renderer interface {
	Render(alert Alert) (Banner, error)
}

// Notifier delivers a banner to a single destination
type Notifier interface {
	Name() string
	Send(ctx context.Context, banner Banner) error
}
