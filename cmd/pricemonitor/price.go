package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/threshold"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	feeder := newFeeder(cfg, log)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Pair", "Price", "Threshold", "Rounded", "Display"})

	tokens := cfg.TokenSettings()
	if len(args) > 0 {
		tokens = lo.Map(args, func(symbol string, _ int) core.TokenSettings {
			return core.TokenSettings{Symbol: symbol}
		})
	}

	for _, token := range tokens {
		pair := exchange.NormalizePair(token.Symbol, cfg.Quote)

		price, err := feeder.LastPrice(cmd.Context(), pair)
		if err != nil {
			log.WithError(err).WithField("pair", pair).Error("failed to fetch price")
			table.Append([]string{pair, "-", "-", "-", "-"})
			continue
		}

		step := threshold.Default(price)
		if token.HasThreshold() {
			step = *token.Threshold
		}
		rounded := threshold.RoundDown(price, step)

		table.Append([]string{
			pair,
			price.String(),
			step.String(),
			rounded.String(),
			threshold.FormatPrice(rounded, threshold.DecimalPlaces(step)),
		})
	}

	table.Render()
	return nil
}
