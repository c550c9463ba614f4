package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/logger/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeFeeder returns queued prices per pair; an empty queue is an error
type fakeFeeder struct {
	prices map[string][]string
	fail   map[string]bool
	calls  []string
}

func (f *fakeFeeder) LastPrice(_ context.Context, pair string) (decimal.Decimal, error) {
	f.calls = append(f.calls, pair)
	if f.fail[pair] {
		return decimal.Zero, errors.New("connection reset by peer")
	}

	queue := f.prices[pair]
	if len(queue) == 0 {
		return decimal.Zero, errors.New("no price queued")
	}
	f.prices[pair] = queue[1:]
	return d(queue[0]), nil
}

type fakeRenderer struct {
	err    error
	alerts []core.Alert
}

func (r *fakeRenderer) Render(alert core.Alert) (core.Banner, error) {
	r.alerts = append(r.alerts, alert)
	if r.err != nil {
		return core.Banner{}, r.err
	}
	return core.Banner{Alert: alert}, nil
}

type fakeDispatcher struct {
	banners []core.Banner
}

func (f *fakeDispatcher) Dispatch(_ context.Context, banner core.Banner) int {
	f.banners = append(f.banners, banner)
	return 1
}

func newTestMonitor(feeder *fakeFeeder, options ...Option) (*Monitor, *fakeRenderer, *fakeDispatcher) {
	renderer := &fakeRenderer{}
	dispatcher := &fakeDispatcher{}
	return New(feeder, renderer, dispatcher, zerolog.Nop(), options...), renderer, dispatcher
}

func thresholdOf(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestMonitor_InitDefaultThreshold(t *testing.T) {
	feeder := &fakeFeeder{prices: map[string][]string{"BTC/USDT": {"61234.5"}}}
	monitor, _, dispatcher := newTestMonitor(feeder)

	tracked := monitor.Init(context.Background(), []core.TokenSettings{{Symbol: "BTC"}})
	require.Equal(t, 1, tracked)

	symbol, ok := monitor.State().Get("BTC/USDT")
	require.True(t, ok)
	require.Equal(t, "306.1725", symbol.Threshold.String())
	require.Equal(t, "61234.5", symbol.LastRounded.String())
	require.Equal(t, 4, symbol.Decimals)
	require.True(t, symbol.LastRounded.Mod(symbol.Threshold).IsZero())

	// startup announcement is sent without any baseline
	require.Len(t, dispatcher.banners, 1)
	alert := dispatcher.banners[0].Alert
	require.True(t, alert.Initial)
	require.Equal(t, "BTC/USDT", alert.Pair)
	require.True(t, alert.Price.Equal(d("61234.5")))
}

func TestMonitor_ThresholdCrossing(t *testing.T) {
	feeder := &fakeFeeder{prices: map[string][]string{
		"ETH/USDT": {"3000", "3009", "3011", "3011", "2999.99"},
	}}
	monitor, _, dispatcher := newTestMonitor(feeder)
	ctx := context.Background()

	monitor.Init(ctx, []core.TokenSettings{{Symbol: "eth/usdt", Threshold: thresholdOf("10")}})
	require.Len(t, dispatcher.banners, 1)

	symbol, _ := monitor.State().Get("ETH/USDT")
	require.Equal(t, "3000", symbol.LastRounded.String())
	require.Equal(t, 0, symbol.Decimals)

	// 3009 rounds to 3000: no notification
	require.Equal(t, 0, monitor.Poll(ctx))
	require.Len(t, dispatcher.banners, 1)

	// 3011 rounds to 3010: exactly one threshold unit, notifies
	require.Equal(t, 1, monitor.Poll(ctx))
	require.Len(t, dispatcher.banners, 2)
	require.Equal(t, "3010", symbol.LastRounded.String())
	alert := dispatcher.banners[1].Alert
	require.False(t, alert.Initial)
	require.Equal(t, "3000", alert.Previous.String())
	require.Equal(t, "3011", alert.Actual.String())

	// unchanged
	require.Equal(t, 0, monitor.Poll(ctx))

	// 2999.99 rounds to 2990: downward crossing
	require.Equal(t, 1, monitor.Poll(ctx))
	require.Equal(t, "2990", symbol.LastRounded.String())
}

func TestMonitor_FetchFailureIsolation(t *testing.T) {
	feeder := &fakeFeeder{
		prices: map[string][]string{
			"ADA/USDT": {"0.5"},
			"BTC/USDT": {"30000"},
			"SOL/USDT": {"100", "120"},
		},
	}
	monitor, _, dispatcher := newTestMonitor(feeder)
	ctx := context.Background()

	monitor.Init(ctx, []core.TokenSettings{{Symbol: "ADA"}, {Symbol: "BTC"}, {Symbol: "SOL"}})
	require.Equal(t, 3, monitor.State().Len())
	require.Len(t, dispatcher.banners, 3)

	feeder.fail = map[string]bool{"ADA/USDT": true, "BTC/USDT": true}
	feeder.calls = nil

	require.Equal(t, 1, monitor.Poll(ctx))
	require.Equal(t, []string{"ADA/USDT", "BTC/USDT", "SOL/USDT"}, feeder.calls)
	require.Len(t, dispatcher.banners, 4)
	require.Equal(t, "SOL/USDT", dispatcher.banners[3].Pair)

	// failed symbols keep their state
	ada, _ := monitor.State().Get("ADA/USDT")
	require.Equal(t, "0.5", ada.LastRounded.String())
}

func TestMonitor_InitDropsFailedSymbols(t *testing.T) {
	feeder := &fakeFeeder{
		prices: map[string][]string{"ETH/USDT": {"3000"}},
		fail:   map[string]bool{"XYZ/USDT": true},
	}
	monitor, _, dispatcher := newTestMonitor(feeder)
	ctx := context.Background()

	tracked := monitor.Init(ctx, []core.TokenSettings{{Symbol: "XYZ"}, {Symbol: "ETH"}, {Symbol: "eth/usdt"}})
	require.Equal(t, 1, tracked)
	require.Len(t, dispatcher.banners, 1)
	require.Equal(t, []string{"ETH/USDT"}, monitor.State().Pairs())

	feeder.calls = nil
	monitor.Poll(ctx)
	require.Equal(t, []string{"ETH/USDT"}, feeder.calls, "dropped symbols are never fetched again")
}

func TestMonitor_RenderFailure(t *testing.T) {
	feeder := &fakeFeeder{prices: map[string][]string{"ETH/USDT": {"3000", "3100"}}}
	monitor, renderer, dispatcher := newTestMonitor(feeder)
	ctx := context.Background()

	monitor.Init(ctx, []core.TokenSettings{{Symbol: "ETH", Threshold: thresholdOf("50")}})
	renderer.err = errors.New("broken template")

	require.Equal(t, 1, monitor.Poll(ctx))
	require.Len(t, renderer.alerts, 2)
	require.Len(t, dispatcher.banners, 1)

	symbol, _ := monitor.State().Get("ETH/USDT")
	require.Equal(t, "3100", symbol.LastRounded.String())
}

func TestDetect(t *testing.T) {
	symbol := core.TrackedSymbol{Pair: "ETH/USDT", Threshold: d("10"), LastRounded: d("3000")}

	_, crossed := Detect(symbol, d("3009.99"))
	require.False(t, crossed)

	alert, crossed := Detect(symbol, d("3010"))
	require.True(t, crossed)
	require.Equal(t, "3010", alert.Price.String())

	alert, crossed = Detect(symbol, d("2999.5"))
	require.True(t, crossed)
	require.Equal(t, "2990", alert.Price.String())
}

// fakeClock hands control back to the test after every pass
type fakeClock struct {
	waits chan time.Duration
	ticks chan time.Time
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits <- d
	return c.ticks
}

func TestMonitor_Run(t *testing.T) {
	feeder := &fakeFeeder{prices: map[string][]string{"ETH/USDT": {"3000", "3005", "3020"}}}
	clock := &fakeClock{waits: make(chan time.Duration), ticks: make(chan time.Time)}
	monitor, _, dispatcher := newTestMonitor(feeder, WithClock(clock), WithInterval(90*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor.Init(ctx, []core.TokenSettings{{Symbol: "ETH", Threshold: thresholdOf("10")}})

	done := make(chan error, 1)
	go func() {
		done <- monitor.Run(ctx)
	}()

	// first pass: 3005, nothing to send
	require.Equal(t, 90*time.Second, <-clock.waits)
	require.Len(t, dispatcher.banners, 1)

	// second pass: 3020 crosses
	clock.ticks <- time.Now()
	require.Equal(t, 90*time.Second, <-clock.waits)
	require.Len(t, dispatcher.banners, 2)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestState(t *testing.T) {
	state := NewState()
	state.Track(core.TrackedSymbol{Pair: "SOL/USDT"})
	state.Track(core.TrackedSymbol{Pair: "BTC/USDT"})

	require.Equal(t, 2, state.Len())
	require.Equal(t, []string{"BTC/USDT", "SOL/USDT"}, state.Pairs())
	require.True(t, state.Has("BTC/USDT"))
	require.False(t, state.Has("ETH/USDT"))

	snapshot := state.Snapshot()
	snapshot[0].LastRounded = d("1")
	original, _ := state.Get("BTC/USDT")
	require.True(t, original.LastRounded.IsZero(), "snapshot must be a copy")
}
