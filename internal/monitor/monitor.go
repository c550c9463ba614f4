// Package monitor runs the price polling loop: a startup announcement per
// symbol, then a fixed-interval pass that notifies on threshold crossings.
package monitor

import (
	"context"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/raykavin/pricemonitor/pkg/threshold"
	"github.com/shopspring/decimal"
)

// DefaultInterval is the wait between two polling passes
const DefaultInterval = 60 * time.Second

// Clock abstracts the wait between passes so tests can drive the loop
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Dispatcher delivers a banner to every configured destination
type Dispatcher interface {
	Dispatch(ctx context.Context, banner core.Banner) int
}

// Monitor owns the tracked state and runs the poll-detect-notify cycle
type Monitor struct {
	feeder     core.Feeder
	renderer   core.Renderer
	dispatcher Dispatcher
	log        logger.Logger

	state    *State
	clock    Clock
	interval time.Duration
	quote    string
}

// Option configures a Monitor
type Option func(*Monitor)

// WithClock replaces the wall clock used between passes
func WithClock(clock Clock) Option {
	return func(m *Monitor) {
		m.clock = clock
	}
}

// WithInterval sets the wait between passes
func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithQuote sets the quote asset appended to bare symbols
func WithQuote(quote string) Option {
	return func(m *Monitor) {
		m.quote = quote
	}
}

// New creates a monitor with an empty state
func New(feeder core.Feeder, renderer core.Renderer, dispatcher Dispatcher, log logger.Logger, options ...Option) *Monitor {
	m := &Monitor{
		feeder:     feeder,
		renderer:   renderer,
		dispatcher: dispatcher,
		log:        log,
		state:      NewState(),
		clock:      realClock{},
		interval:   DefaultInterval,
		quote:      exchange.DefaultQuote,
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// State returns the tracked state
func (m *Monitor) State() *State { return m.state }

// Init fetches the first price of every token, stores its rounded price and
// sends the startup announcement. Tokens whose price cannot be fetched are
// dropped for the whole run. It returns the number of tracked symbols.
func (m *Monitor) Init(ctx context.Context, tokens []core.TokenSettings) int {
	for _, token := range tokens {
		if ctx.Err() != nil {
			break
		}

		pair := exchange.NormalizePair(token.Symbol, m.quote)
		log := m.log.WithField("pair", pair)

		if m.state.Has(pair) {
			log.Warn("duplicated symbol ignored")
			continue
		}

		price, err := m.feeder.LastPrice(ctx, pair)
		if err != nil {
			log.WithError(err).Error("skipping symbol due to price fetch error")
			continue
		}

		step := threshold.Default(price)
		if token.HasThreshold() {
			step = *token.Threshold
		}

		symbol := core.TrackedSymbol{
			Pair:        pair,
			Threshold:   step,
			LastRounded: threshold.RoundDown(price, step),
			Decimals:    threshold.DecimalPlaces(step),
		}
		m.state.Track(symbol)

		log.WithFields(map[string]any{
			"rounded":   symbol.LastRounded.String(),
			"actual":    price.String(),
			"threshold": step.String(),
		}).Info("initial notification")

		m.notify(ctx, core.Alert{
			Pair:      pair,
			Price:     symbol.LastRounded,
			Actual:    price,
			Threshold: step,
			Decimals:  symbol.Decimals,
			Initial:   true,
		})
	}

	return m.state.Len()
}

// Detect checks a fresh price against a tracked symbol and returns the alert
// to send when the rounded price moved at least one threshold unit.
func Detect(symbol core.TrackedSymbol, price decimal.Decimal) (core.Alert, bool) {
	rounded := threshold.RoundDown(price, symbol.Threshold)
	if !threshold.Crossed(rounded, symbol.LastRounded, symbol.Threshold) {
		return core.Alert{}, false
	}

	return core.Alert{
		Pair:      symbol.Pair,
		Price:     rounded,
		Actual:    price,
		Previous:  symbol.LastRounded,
		Threshold: symbol.Threshold,
		Decimals:  symbol.Decimals,
	}, true
}

// Poll runs one pass over every tracked symbol and returns how many
// crossings were detected
func (m *Monitor) Poll(ctx context.Context) int {
	crossings := 0
	for _, pair := range m.state.Pairs() {
		if ctx.Err() != nil {
			break
		}

		symbol, _ := m.state.Get(pair)
		log := m.log.WithField("pair", pair)

		price, err := m.feeder.LastPrice(ctx, pair)
		if err != nil {
			log.WithError(err).Error("failed to fetch price")
			continue
		}

		alert, crossed := Detect(*symbol, price)
		if !crossed {
			log.WithField("actual", price.String()).Debug("no threshold crossed")
			continue
		}

		crossings++
		symbol.LastRounded = alert.Price

		log.WithFields(map[string]any{
			"rounded":  alert.Price.String(),
			"previous": alert.Previous.String(),
			"actual":   price.String(),
		}).Info("threshold crossed")

		m.notify(ctx, alert)
	}
	return crossings
}

// Run polls until ctx is cancelled, waiting one interval after each pass.
// It always returns the context error.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.WithFields(map[string]any{
		"symbols":  m.state.Len(),
		"interval": m.interval.String(),
	}).Info("started monitoring prices")

	for {
		m.Poll(ctx)

		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return ctx.Err()
		case <-m.clock.After(m.interval):
		}
	}
}

// notify renders the alert and hands it to the dispatcher
func (m *Monitor) notify(ctx context.Context, alert core.Alert) {
	banner, err := m.renderer.Render(alert)
	if err != nil {
		m.log.WithError(err).WithField("pair", alert.Pair).Error("failed to render banner")
		return
	}

	m.dispatcher.Dispatch(ctx, banner)
}
