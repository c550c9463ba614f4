package binance

import (
	"net/http"
	"time"

	"github.com/raykavin/pricemonitor/pkg/logger"
)

// Config represents the configuration of the Binance price client
type Config struct {
	// API credentials
	APIKey    string
	APISecret string

	// Use testnet
	UseTestnet bool

	// Custom REST endpoint (if needed)
	BaseURL string

	// Per request timeout, zero keeps the client default
	Timeout time.Duration
}

// NewExchange creates a Spot client from the provided configuration
func NewExchange(log logger.Logger, config Config) *Spot {
	options := []SpotOption{}

	// Add credentials if provided
	if config.APIKey != "" && config.APISecret != "" {
		options = append(options, WithCredentials(config.APIKey, config.APISecret))
	}

	// Configure testnet if requested
	if config.UseTestnet {
		options = append(options, WithTestNet())
	}

	// A custom endpoint wins over the testnet one
	if config.BaseURL != "" {
		options = append(options, WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		options = append(options, WithHTTPClient(&http.Client{Timeout: config.Timeout}))
	}

	return NewSpot(log, options...)
}
