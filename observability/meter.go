package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs an OTLP/HTTP meter provider globally. The caller shuts
// it down.
func InitMeter(ctx context.Context, id Identity, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	res, err := newResource(id)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the global meter for speakmate instruments.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics are the instruments recorded by the HTTP layer and the coaching
// pipeline.
type Metrics struct {
	requests    metric.Int64Counter
	requestTime metric.Float64Histogram
	inFlight    metric.Int64UpDownCounter
	stageTotal  metric.Int64Counter
	stageTime   metric.Float64Histogram
	uploadBytes metric.Int64Histogram
	errors      metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requests, err = meter.Int64Counter("speakmate.requests",
		metric.WithDescription("HTTP requests by route and status")); err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}
	if m.requestTime, err = meter.Float64Histogram("speakmate.request.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating request duration histogram: %w", err)
	}
	if m.inFlight, err = meter.Int64UpDownCounter("speakmate.requests.in_flight",
		metric.WithDescription("Requests currently being processed")); err != nil {
		return nil, fmt.Errorf("creating in-flight counter: %w", err)
	}
	if m.stageTotal, err = meter.Int64Counter("speakmate.stage.calls",
		metric.WithDescription("Pipeline stage executions by outcome")); err != nil {
		return nil, fmt.Errorf("creating stage counter: %w", err)
	}
	if m.stageTime, err = meter.Float64Histogram("speakmate.stage.duration",
		metric.WithDescription("Pipeline stage duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating stage duration histogram: %w", err)
	}
	if m.uploadBytes, err = meter.Int64Histogram("speakmate.upload.size",
		metric.WithDescription("Accepted audio upload size"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("creating upload size histogram: %w", err)
	}
	if m.errors, err = meter.Int64Counter("speakmate.errors",
		metric.WithDescription("Errors by code and component")); err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}
	return &m, nil
}

// RequestStarted increments the in-flight gauge.
func (m *Metrics) RequestStarted(ctx context.Context) {
	m.inFlight.Add(ctx, 1)
}

// RequestFinished decrements the in-flight gauge and records the request.
func (m *Metrics) RequestFinished(ctx context.Context, route string, status int, d time.Duration) {
	m.inFlight.Add(ctx, -1)
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int(AttrStatus, status),
	))
	m.requestTime.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("route", route)))
}

// Stage records one pipeline stage execution.
func (m *Metrics) Stage(ctx context.Context, stage, provider string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStage, stage),
		attribute.String(AttrProvider, provider),
		attribute.String(AttrStatus, status),
	))
	m.stageTime.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrStage, stage),
		attribute.String(AttrProvider, provider),
	))
}

// Upload records the size of an accepted upload.
func (m *Metrics) Upload(ctx context.Context, bytes int64) {
	m.uploadBytes.Record(ctx, bytes)
}

// Error counts one failure.
func (m *Metrics) Error(ctx context.Context, code, component string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
