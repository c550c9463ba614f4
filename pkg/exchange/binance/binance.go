// Package binance implements core.Feeder on top of the Binance spot REST API.
package binance

import (
	"errors"
	"fmt"

	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned when Binance rejects the requested symbol
var ErrUnknownSymbol = errors.New("unknown symbol")

// invalidSymbolCode is the Binance API error code for an unknown symbol
const invalidSymbolCode = -1121

// wrapAPIError converts Binance API errors into errors carrying the pair
func wrapAPIError(pair string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == invalidSymbolCode {
			return fmt.Errorf("%w %s: %s", ErrUnknownSymbol, pair, apiErr.Message)
		}
		return fmt.Errorf("binance api error for %s (code %d): %s", pair, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("failed to fetch price for %s: %w", pair, err)
}

// parsePrice parses a decimal price string returned by the API
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price %s", raw)
	}
	return price, nil
}
