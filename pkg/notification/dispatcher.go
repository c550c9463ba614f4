package notification

import (
	"context"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/samber/lo"
)

// Dispatcher delivers every banner to all of its notifiers. A failing
// notifier is logged and never stops the others.
type Dispatcher struct {
	notifiers []core.Notifier
	log       logger.Logger
}

// NewDispatcher creates a dispatcher, nil notifiers are ignored
func NewDispatcher(log logger.Logger, notifiers ...core.Notifier) *Dispatcher {
	return &Dispatcher{
		notifiers: lo.Filter(notifiers, func(n core.Notifier, _ int) bool {
			return n != nil
		}),
		log: log,
	}
}

// Names returns the names of the configured notifiers
func (d *Dispatcher) Names() []string {
	return lo.Map(d.notifiers, func(n core.Notifier, _ int) string {
		return n.Name()
	})
}

// Dispatch sends the banner through every notifier and returns how many
// deliveries succeeded
func (d *Dispatcher) Dispatch(ctx context.Context, banner core.Banner) int {
	delivered := 0
	for _, notifier := range d.notifiers {
		start := time.Now()
		log := d.log.WithFields(map[string]any{
			"notifier": notifier.Name(),
			"pair":     banner.Pair,
		})

		if err := notifier.Send(ctx, banner); err != nil {
			log.WithError(err).Error("failed to deliver notification")
			continue
		}

		delivered++
		log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debug("notification delivered")
	}
	return delivered
}
