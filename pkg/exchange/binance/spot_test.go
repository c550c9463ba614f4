package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/logger/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("symbol") {
		case "BTCUSDT":
			_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"61234.50000000"}`))
		case "ETHUSDT":
			_, _ = w.Write([]byte(`{"symbol":"ETHUSDT","price":"not-a-number"}`))
		case "BNBUSDT":
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func TestSpot_LastPrice(t *testing.T) {
	server := newTestServer(t)
	spot := NewSpot(zerolog.Nop(), WithBaseURL(server.URL))

	price, err := spot.LastPrice(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	require.Equal(t, "61234.5", price.String())
}

func TestSpot_LastPriceErrors(t *testing.T) {
	server := newTestServer(t)
	spot := NewExchange(zerolog.Nop(), Config{BaseURL: server.URL + "/"})
	ctx := context.Background()

	_, err := spot.LastPrice(ctx, "NOPE/USDT")
	require.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = spot.LastPrice(ctx, "ETH/USDT")
	require.ErrorIs(t, err, exchange.ErrInvalidPrice)

	_, err = spot.LastPrice(ctx, "BNB/USDT")
	require.ErrorIs(t, err, exchange.ErrPriceNotFound)

	_, err = spot.LastPrice(ctx, "BTC")
	require.ErrorIs(t, err, exchange.ErrInvalidPair)
}

func TestSpot_LastPriceNetworkError(t *testing.T) {
	server := newTestServer(t)
	url := server.URL
	server.Close()

	spot := NewSpot(zerolog.Nop(), WithBaseURL(url))
	_, err := spot.LastPrice(context.Background(), "BTC/USDT")
	require.Error(t, err)
}
