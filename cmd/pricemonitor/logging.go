package main

import (
	"github.com/raykavin/pricemonitor/internal/config"
	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/raykavin/pricemonitor/pkg/logger/logrus"
	"github.com/raykavin/pricemonitor/pkg/logger/zerolog"
)

// newLogger builds the configured logging backend
func newLogger(cfg config.LogConfig) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Backend == logger.BackendLogrus {
		name := level.String()
		if level == logger.Disabled {
			name = "panic"
		}

		return logrus.New(logrus.Options{
			Level:          name,
			DateTimeLayout: cfg.TimeLayout,
			Colored:        cfg.Colored,
			JSON:           cfg.JSON,
		})
	}

	return zerolog.New(zerolog.Options{
		Level:          level.String(),
		DateTimeLayout: cfg.TimeLayout,
		Colored:        cfg.Colored,
		JSON:           cfg.JSON,
	})
}
