package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/speakmate/component"
	"github.com/kbukum/speakmate/logger"
)

// DefaultGracefulTimeout bounds shutdown when no option overrides it.
const DefaultGracefulTimeout = 15 * time.Second

// App is a binary with typed config C and a component registry.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies config defaults, validates and initializes logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := appOptions{
		gracefulTimeout: DefaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := cfg.GetServiceConfig()
	if o.logger == nil {
		logger.Init(&base.Logging)
		o.logger = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
		signals:         o.signals,
	}, nil
}

// RegisterComponent adds c to the registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback run after components start. Routes and
// business services are wired here.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck returns an error naming every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += " (" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) > 0 {
		return fmt.Errorf("unhealthy components: %v", bad)
	}
	return nil
}

// Run starts the app and blocks until a shutdown signal or ctx is done.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, a.signals...)
	defer cancel()
	<-ctx.Done()
	a.Logger.Info("Shutdown requested")

	return a.stop()
}

// RunTask starts the app, runs task with a context canceled on shutdown
// signals and then stops. The task's error takes precedence.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, a.signals...)
	taskErr := task(taskCtx)
	cancel()

	stopErr := a.stop()
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Debug("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, "start", a.onStart); err != nil {
		return err
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, "ready", a.onReady); err != nil {
		return err
	}

	logSummary(a.Logger, a.Name, a.Version, time.Since(start), a.Components.All())
	return nil
}

// Shutdown stops the app when the caller manages its own lifecycle.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := runHooks(ctx, "stop", a.onStop)
	stopErr := a.Components.StopAll(ctx)
	err := errors.Join(hookErr, stopErr)
	if err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Debug("Application stopped")
	return nil
}
