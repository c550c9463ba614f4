package exchange

import (
	"fmt"
	"strings"
)

// quoteAssets are the suffixes recognized when splitting concatenated
// exchange symbols such as BTCUSDT. Longer quotes come first so FDUSD is
// not read as USD.
var quoteAssets = []string{"FDUSD", "USDT", "BUSD", "USDC", "TUSD", "EUR", "TRY", "BTC", "ETH", "BNB"}

// NormalizePair converts a configured symbol into BASE/QUOTE notation.
// "btc" becomes "BTC/USDT" and "eth/usdt" becomes "ETH/USDT". Pairs that
// already carry a quote are upper-cased too, so "eth/usdt" and "ETH/USDT"
// are the same tracked symbol and the banner caption is always upper case.
func NormalizePair(symbol, quote string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(symbol, "/") {
		return symbol
	}

	if quote == "" {
		quote = DefaultQuote
	}
	return symbol + "/" + strings.ToUpper(quote)
}

// SplitAssetQuote splits a pair into its base and quote assets. It accepts
// both BASE/QUOTE and concatenated exchange symbols.
func SplitAssetQuote(pair string) (asset, quote string) {
	pair = strings.ToUpper(pair)
	if base, q, found := strings.Cut(pair, "/"); found {
		return base, q
	}

	for _, quote = range quoteAssets {
		if len(pair) > len(quote) && strings.HasSuffix(pair, quote) {
			return pair[:len(pair)-len(quote)], quote
		}
	}

	return pair, ""
}

// ExchangeSymbol converts BASE/QUOTE into the concatenated form used by
// exchange REST APIs, e.g. BTC/USDT -> BTCUSDT.
func ExchangeSymbol(pair string) (string, error) {
	asset, quote := SplitAssetQuote(pair)
	if asset == "" || quote == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPair, pair)
	}
	return asset + quote, nil
}
