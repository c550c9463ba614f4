package main

import (
	"fmt"
	"os"

	"github.com/raykavin/pricemonitor/internal/config"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configPath string
	logLevel   string

	// Render command flags
	renderSymbol    string
	renderPrice     string
	renderThreshold string
	renderOutput    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pricemonitor",
		Short:         "Crypto price threshold monitor with Telegram and Discord alerts",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Configuration file (json, yaml or toml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Override the configured log level")

	rootCmd.AddCommand(buildRunCmd())
	rootCmd.AddCommand(buildPriceCmd())
	rootCmd.AddCommand(buildRenderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Announce every configured symbol and monitor threshold crossings",
		RunE:  runMonitor,
	}
}

func buildPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price [symbols...]",
		Short: "Print the current and rounded price of the given or configured symbols",
		RunE:  runPrice,
	}
}

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single banner to a file",
		RunE:  runRender,
	}

	renderCmd.Flags().StringVarP(&renderSymbol, "symbol", "s", "", "Symbol or pair (e.g. BTC or ETH/USDT)")
	renderCmd.Flags().StringVarP(&renderPrice, "price", "p", "", "Price to draw (e.g. 61234.5)")
	renderCmd.Flags().StringVarP(&renderThreshold, "threshold", "t", "", "Threshold, derived from the price when empty")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "banner.png", "Output file path")

	renderCmd.MarkFlagRequired("symbol")
	renderCmd.MarkFlagRequired("price")

	return renderCmd
}

// loadConfig reads the configuration and applies the command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	return cfg, nil
}
