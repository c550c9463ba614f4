package main

import (
	"fmt"
	"os"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/threshold"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func runRender(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	price, err := decimal.NewFromString(renderPrice)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", renderPrice, err)
	}

	step := threshold.Default(price)
	if renderThreshold != "" {
		step, err = decimal.NewFromString(renderThreshold)
		if err != nil || !step.IsPositive() {
			return fmt.Errorf("invalid threshold %q", renderThreshold)
		}
	}

	renderer, err := newRenderer(cfg, log)
	if err != nil {
		return err
	}

	banner, err := renderer.Render(core.Alert{
		Pair:      exchange.NormalizePair(renderSymbol, cfg.Quote),
		Price:     threshold.RoundDown(price, step),
		Actual:    price,
		Threshold: step,
		Decimals:  threshold.DecimalPlaces(step),
	})
	if err != nil {
		return err
	}

	file, err := os.Create(renderOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", renderOutput, err)
	}
	defer file.Close()

	if err := banner.Encode(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutput, err)
	}

	log.WithField("file", renderOutput).Info("banner written")
	return nil
}
