package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePair(t *testing.T) {
	require.Equal(t, "BTC/USDT", NormalizePair("BTC", ""))
	require.Equal(t, "BTC/USDT", NormalizePair(" btc ", "usdt"))
	require.Equal(t, "ETH/USDT", NormalizePair("eth/usdt", "BUSD"))
	require.Equal(t, "SOL/FDUSD", NormalizePair("sol", "fdusd"))
}

func TestSplitAssetQuote(t *testing.T) {
	tests := []struct {
		pair  string
		asset string
		quote string
	}{
		{"BTC/USDT", "BTC", "USDT"},
		{"eth/btc", "ETH", "BTC"},
		{"BTCUSDT", "BTC", "USDT"},
		{"SOLFDUSD", "SOL", "FDUSD"},
		{"ETHBTC", "ETH", "BTC"},
		{"USDT", "USDT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			asset, quote := SplitAssetQuote(tt.pair)
			require.Equal(t, tt.asset, asset)
			require.Equal(t, tt.quote, quote)
		})
	}
}

func TestExchangeSymbol(t *testing.T) {
	symbol, err := ExchangeSymbol("BTC/USDT")
	require.NoError(t, err)
	require.Equal(t, "BTCUSDT", symbol)

	_, err = ExchangeSymbol("BTC/")
	require.ErrorIs(t, err, ErrInvalidPair)

	_, err = ExchangeSymbol("DOGE")
	require.ErrorIs(t, err, ErrInvalidPair)
}
