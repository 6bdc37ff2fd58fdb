package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/speakmate/component"
	"github.com/kbukum/speakmate/logger"
)

// Component starts and flushes the telemetry exporters.
type Component struct {
	id  Identity
	cfg Config
	log *logger.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a telemetry component. Nothing is exported until
// Start, and only when cfg.Enabled.
func NewComponent(id Identity, cfg Config, log *logger.Logger) *Component {
	return &Component{id: id, cfg: cfg, log: log.WithComponent("telemetry")}
}

func (c *Component) Name() string { return "telemetry" }

func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	tp, err := InitTracer(ctx, c.id, c.cfg)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	mp, err := InitMeter(ctx, c.id, c.cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("init meter: %w", err)
	}
	c.tp, c.mp = tp, mp
	c.log.Info("Telemetry exporters started", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
	))
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	c.tp, c.mp = nil, nil
	return errors.Join(errs...)
}

func (c *Component) Health(context.Context) component.Health {
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	if !c.cfg.Enabled {
		return component.Description{Type: "telemetry", Details: "disabled"}
	}
	return component.Description{
		Type:    "telemetry",
		Details: fmt.Sprintf("otlp http://%s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate),
	}
}
