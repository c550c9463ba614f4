// Package logrus adapts github.com/sirupsen/logrus to the logger.Logger facade.
package logrus

import (
	"io"
	"os"

	"github.com/raykavin/pricemonitor/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Options configures the text output of the logrus backend
type Options struct {
	Level          string
	DateTimeLayout string
	Colored        bool
	JSON           bool
	Out            io.Writer // defaults to os.Stdout
}

type Adapter struct {
	entry *logrus.Entry
}

var _ logger.Logger = (*Adapter)(nil)

// New builds a logrus logger writing to stdout
func New(opts Options) (*Adapter, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: opts.DateTimeLayout})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: opts.DateTimeLayout,
			ForceColors:     opts.Colored,
			DisableColors:   !opts.Colored,
		})
	}

	return NewAdapter(logrus.NewEntry(log)), nil
}

func NewAdapter(entry *logrus.Entry) *Adapter {
	return &Adapter{entry: entry}
}

// GetLevel implements logger.Logger.
func (l *Adapter) GetLevel() logger.Level {
	switch l.entry.Logger.GetLevel() {
	case logrus.TraceLevel:
		return logger.TraceLevel
	case logrus.DebugLevel:
		return logger.DebugLevel
	case logrus.InfoLevel:
		return logger.InfoLevel
	case logrus.WarnLevel:
		return logger.WarnLevel
	case logrus.ErrorLevel:
		return logger.ErrorLevel
	case logrus.FatalLevel:
		return logger.FatalLevel
	case logrus.PanicLevel:
		return logger.PanicLevel
	default:
		return logger.NoLevel
	}
}

// SetLevel implements logger.Logger. logrus has no disabled level, so
// Disabled maps to panic-only output.
func (l *Adapter) SetLevel(level logger.Level) {
	switch level {
	case logger.TraceLevel:
		l.entry.Logger.SetLevel(logrus.TraceLevel)
	case logger.DebugLevel:
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	case logger.InfoLevel:
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	case logger.WarnLevel:
		l.entry.Logger.SetLevel(logrus.WarnLevel)
	case logger.ErrorLevel:
		l.entry.Logger.SetLevel(logrus.ErrorLevel)
	case logger.FatalLevel:
		l.entry.Logger.SetLevel(logrus.FatalLevel)
	default:
		l.entry.Logger.SetLevel(logrus.PanicLevel)
	}
}

// Debug implements logger.Logger.
func (l *Adapter) Debug(args ...any) { l.entry.Debug(args...) }

// Debugf implements logger.Logger.
func (l *Adapter) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

// Info implements logger.Logger.
func (l *Adapter) Info(args ...any) { l.entry.Info(args...) }

// Infof implements logger.Logger.
func (l *Adapter) Infof(format string, args ...any) { l.entry.Infof(format, args...) }

// Warn implements logger.Logger.
func (l *Adapter) Warn(args ...any) { l.entry.Warn(args...) }

// Warnf implements logger.Logger.
func (l *Adapter) Warnf(format string, args ...any) { l.entry.Warnf(format, args...) }

// Error implements logger.Logger.
func (l *Adapter) Error(args ...any) { l.entry.Error(args...) }

// Errorf implements logger.Logger.
func (l *Adapter) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

// Fatal implements logger.Logger.
func (l *Adapter) Fatal(args ...any) { l.entry.Fatal(args...) }

// Fatalf implements logger.Logger.
func (l *Adapter) Fatalf(format string, args ...any) { l.entry.Fatalf(format, args...) }

// WithError implements logger.Logger.
func (l *Adapter) WithError(err error) logger.Logger {
	return &Adapter{entry: l.entry.WithError(err)}
}

// WithField implements logger.Logger.
func (l *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{entry: l.entry.WithField(key, value)}
}

// WithFields implements logger.Logger.
func (l *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{entry: l.entry.WithFields(logrus.Fields(fields))}
}
