package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/raykavin/pricemonitor/internal/config"
	"github.com/raykavin/pricemonitor/internal/monitor"
	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange/binance"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/raykavin/pricemonitor/pkg/notification"
	"github.com/raykavin/pricemonitor/pkg/render"
	"github.com/spf13/cobra"
)

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	renderer, err := newRenderer(cfg, log)
	if err != nil {
		return err
	}

	notifiers, err := newNotifiers(cfg, log)
	if err != nil {
		return err
	}
	dispatcher := notification.NewDispatcher(log, notifiers...)

	m := monitor.New(
		newFeeder(cfg, log),
		renderer,
		dispatcher,
		log,
		monitor.WithInterval(cfg.PollInterval),
		monitor.WithQuote(cfg.Quote),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithField("destinations", dispatcher.Names()).Info("initializing symbols")
	if tracked := m.Init(ctx, cfg.TokenSettings()); tracked == 0 {
		log.Warn("no symbol could be initialized")
	}

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newFeeder creates the Binance spot price client
func newFeeder(cfg *config.Config, log logger.Logger) core.Feeder {
	return binance.NewExchange(log, binance.Config{
		APIKey:     cfg.Binance.APIKey,
		APISecret:  cfg.Binance.APISecret,
		UseTestnet: cfg.Binance.Testnet,
		BaseURL:    cfg.Binance.BaseURL,
		Timeout:    cfg.BinanceTimeout(),
	})
}

// newRenderer loads the background template and the configured fonts
func newRenderer(cfg *config.Config, log logger.Logger) (*render.Renderer, error) {
	template, err := render.LoadTemplate(cfg.Background)
	if err != nil {
		return nil, err
	}

	return render.New(template, cfg.Handle, log, render.WithFonts(render.DefaultFonts(cfg.Fonts...)...)), nil
}

// newNotifiers builds every configured delivery path
func newNotifiers(cfg *config.Config, log logger.Logger) ([]core.Notifier, error) {
	var notifiers []core.Notifier

	if cfg.TelegramEnabled() {
		var options []notification.TelegramOption
		if cfg.TelegramCaption {
			options = append(options, notification.WithCaption())
		}

		telegram, err := notification.NewTelegram(notification.TelegramSettings{
			Token:   cfg.TelegramBotToken,
			Channel: cfg.TelegramChannelID,
			APIURL:  cfg.TelegramAPIURL,
			Timeout: cfg.DeliveryTimeoutDuration(),
		}, options...)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, telegram)
	} else {
		log.Warn("telegram delivery disabled: bot token or channel id missing")
	}

	if cfg.WebhookEnabled() {
		notifiers = append(notifiers, notification.NewWebhook(
			cfg.DiscordWebhook,
			notification.WithWebhookTimeout(cfg.DeliveryTimeoutDuration()),
		))
	} else {
		log.Warn("discord delivery disabled: webhook url missing")
	}

	return notifiers, nil
}
