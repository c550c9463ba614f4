package binance

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/shopspring/decimal"
)

// Spot represents the Binance spot market price client
type Spot struct {
	client *binance.Client
	log    logger.Logger
}

var _ core.Feeder = (*Spot)(nil)

// SpotOption is a function that configures a Spot client
type SpotOption func(*Spot)

// WithCredentials sets the API credentials for the Spot client.
// Public price endpoints work without them.
func WithCredentials(key, secret string) SpotOption {
	return func(s *Spot) {
		s.client.APIKey = key
		s.client.SecretKey = secret
	}
}

// WithTestNet points the client at the Binance spot testnet
func WithTestNet() SpotOption {
	return func(s *Spot) {
		s.client.BaseURL = binance.BaseAPITestnetURL
	}
}

// WithBaseURL overrides the REST endpoint, mostly useful for proxies and tests
func WithBaseURL(url string) SpotOption {
	return func(s *Spot) {
		s.client.BaseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets the HTTP client used for every request
func WithHTTPClient(client *http.Client) SpotOption {
	return func(s *Spot) {
		s.client.HTTPClient = client
	}
}

// NewSpot creates a new Binance spot price client
func NewSpot(log logger.Logger, options ...SpotOption) *Spot {
	spot := &Spot{
		client: binance.NewClient("", ""),
		log:    log,
	}

	for _, option := range options {
		option(spot)
	}

	log.WithField("endpoint", spot.client.BaseURL).Debug("[SETUP] Using Binance Spot exchange")
	return spot
}

// LastPrice returns the latest traded price for a BASE/QUOTE pair
func (s *Spot) LastPrice(ctx context.Context, pair string) (decimal.Decimal, error) {
	symbol, err := exchange.ExchangeSymbol(pair)
	if err != nil {
		return decimal.Zero, err
	}

	prices, err := s.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, wrapAPIError(pair, err)
	}

	for _, p := range prices {
		if p == nil || p.Symbol != symbol {
			continue
		}

		price, err := parsePrice(p.Price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w for %s: %v", exchange.ErrInvalidPrice, pair, err)
		}
		return price, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s", exchange.ErrPriceNotFound, pair)
}
