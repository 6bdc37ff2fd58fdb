package bootstrap

import (
	"os"
	"time"

	"github.com/kbukum/speakmate/logger"
)

// Option configures an App. Options are not generic so they work with any
// config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	signals         []os.Signal
}

// WithLogger replaces the logger otherwise built from the config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithSignals overrides the signals that trigger shutdown.
func WithSignals(sigs ...os.Signal) Option {
	return func(o *appOptions) { o.signals = sigs }
}
