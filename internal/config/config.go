// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/pricemonitor/pkg/core"
	"github.com/raykavin/pricemonitor/pkg/exchange"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	DefaultConfigPath = "config.json"
	DefaultHandle     = "@CryptoPriceAlertMonitor"
	DefaultInterval   = "60s"
	DefaultBackground = "image.png"
	DefaultTimeLayout = "2006-01-02 15:04:05"
	DefaultDelivery   = "60s"
	EnvPrefix         = "PRICEMONITOR"
)

// DefaultFonts are tried in order before the embedded fallback font
var DefaultFonts = []string{"trebucbd.ttf", "arialbd.ttf"}

// Validation errors
var (
	ErrNoTokens         = errors.New("no tokens configured")
	ErrEmptySymbol      = errors.New("token without symbol")
	ErrInvalidThreshold = errors.New("threshold must be positive")
	ErrInvalidInterval  = errors.New("invalid interval")
)

// Config holds the application configuration
type Config struct {
	TelegramBotToken  string        `mapstructure:"telegram_bot_token"`
	TelegramChannelID string        `mapstructure:"telegram_channel_id"`
	TelegramAPIURL    string        `mapstructure:"telegram_api_url"`
	TelegramCaption   bool          `mapstructure:"telegram_caption"`
	DiscordWebhook    string        `mapstructure:"discord_webhook"`
	DeliveryTimeout   string        `mapstructure:"delivery_timeout"`
	Tokens            []TokenConfig `mapstructure:"tokens"`

	Handle     string   `mapstructure:"handle"`
	Quote      string   `mapstructure:"quote"`
	Interval   string   `mapstructure:"interval"`
	Background string   `mapstructure:"background"`
	Fonts      []string `mapstructure:"fonts"`

	Log     LogConfig     `mapstructure:"log"`
	Binance BinanceConfig `mapstructure:"binance"`

	// PollInterval is Interval parsed by Validate
	PollInterval time.Duration `mapstructure:"-"`
}

// TokenConfig is one tracked symbol. A missing threshold is derived from the
// first fetched price.
type TokenConfig struct {
	Symbol    string   `mapstructure:"symbol"`
	Threshold *float64 `mapstructure:"threshold"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Backend    string `mapstructure:"backend"`
	Colored    bool   `mapstructure:"colored"`
	JSON       bool   `mapstructure:"json"`
	TimeLayout string `mapstructure:"time_layout"`
}

// BinanceConfig holds Binance exchange configuration
type BinanceConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Testnet   bool   `mapstructure:"testnet"`
	BaseURL   string `mapstructure:"base_url"`
	Timeout   string `mapstructure:"timeout"`
}

// Load reads the configuration file at path. The format follows the file
// extension, and every key can be overridden with PRICEMONITOR_* variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_channel_id", "")
	v.SetDefault("telegram_api_url", "")
	v.SetDefault("telegram_caption", false)
	v.SetDefault("discord_webhook", "")
	v.SetDefault("delivery_timeout", DefaultDelivery)
	v.SetDefault("handle", DefaultHandle)
	v.SetDefault("quote", exchange.DefaultQuote)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("background", DefaultBackground)
	v.SetDefault("fonts", DefaultFonts)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.backend", logger.BackendZerolog)
	v.SetDefault("log.colored", true)
	v.SetDefault("log.json", false)
	v.SetDefault("log.time_layout", DefaultTimeLayout)
	v.SetDefault("binance.api_key", "")
	v.SetDefault("binance.api_secret", "")
	v.SetDefault("binance.testnet", false)
	v.SetDefault("binance.base_url", "")
	v.SetDefault("binance.timeout", "10s")
}

// Validate checks the configuration and fills the parsed fields
func (c *Config) Validate() error {
	var errs []error

	if len(c.Tokens) == 0 {
		errs = append(errs, ErrNoTokens)
	}

	for i, token := range c.Tokens {
		if strings.TrimSpace(token.Symbol) == "" {
			errs = append(errs, fmt.Errorf("%w at position %d", ErrEmptySymbol, i))
		}
		if token.Threshold != nil && *token.Threshold <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s has %v", ErrInvalidThreshold, token.Symbol, *token.Threshold))
		}
	}

	interval, err := ParseInterval(c.Interval)
	if err != nil {
		errs = append(errs, err)
	}
	c.PollInterval = interval

	if _, err := ParseInterval(c.Binance.Timeout); c.Binance.Timeout != "" && err != nil {
		errs = append(errs, fmt.Errorf("binance timeout: %w", err))
	}

	if _, err := ParseInterval(c.DeliveryTimeout); c.DeliveryTimeout != "" && err != nil {
		errs = append(errs, fmt.Errorf("delivery timeout: %w", err))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if c.Log.Backend != logger.BackendZerolog && c.Log.Backend != logger.BackendLogrus {
		errs = append(errs, fmt.Errorf("unknown log backend: %q", c.Log.Backend))
	}

	return errors.Join(errs...)
}

// ParseInterval accepts durations like "90s", "1m", "1h30m" or "1d", and a
// bare number as seconds
func ParseInterval(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil {
		value = strconv.Itoa(seconds) + "s"
	}

	interval, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidInterval, value, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidInterval, value)
	}
	return interval, nil
}

// TokenSettings converts the configured tokens into monitor input
func (c *Config) TokenSettings() []core.TokenSettings {
	settings := make([]core.TokenSettings, 0, len(c.Tokens))
	for _, token := range c.Tokens {
		item := core.TokenSettings{Symbol: strings.TrimSpace(token.Symbol)}
		if token.Threshold != nil {
			th := decimal.NewFromFloat(*token.Threshold)
			item.Threshold = &th
		}
		settings = append(settings, item)
	}
	return settings
}

// TelegramEnabled reports whether the Telegram delivery path is configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChannelID != ""
}

// WebhookEnabled reports whether the webhook delivery path is configured
func (c *Config) WebhookEnabled() bool {
	return c.DiscordWebhook != ""
}

// BinanceTimeout returns the parsed request timeout, zero when unset
func (c *Config) BinanceTimeout() time.Duration {
	timeout, _ := ParseInterval(c.Binance.Timeout)
	return timeout
}

// DeliveryTimeoutDuration returns the per upload timeout shared by Telegram
// and the webhook, zero when unset
func (c *Config) DeliveryTimeoutDuration() time.Duration {
	timeout, _ := ParseInterval(c.DeliveryTimeout)
	return timeout
}
