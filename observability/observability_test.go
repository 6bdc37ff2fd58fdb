package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/speakmate/logger"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.SampleRate = 1.5
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "sample_rate") {
		t.Errorf("expected sample_rate error, got %v", err)
	}
}

func TestSpanHelpers(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "coach.transcribe")
	SetSpanAttribute(ctx, AttrProvider, "openai")
	SetSpanAttribute(ctx, AttrBytes, int64(2048))
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, errors.New("upstream 503"))
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d", len(ended))
	}
	s := ended[0]
	if s.Name() != "coach.transcribe" {
		t.Errorf("name = %q", s.Name())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrProvider].AsString() != "openai" || attrs[AttrBytes].AsInt64() != 2048 {
		t.Errorf("attributes = %v", s.Attributes())
	}
	if _, ok := attrs["ignored"]; ok {
		t.Error("unsupported attribute type should be skipped")
	}
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v", s.Status())
	}
	if len(s.Events()) == 0 {
		t.Error("expected recorded error event")
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "k", "v")
	SetSpanError(context.Background(), errors.New("x"))
}

func TestMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.RequestStarted(ctx)
	m.RequestFinished(ctx, "/speak", 200, 120*time.Millisecond)
	m.Stage(ctx, "transcribe", "openai", nil, time.Second)
	m.Stage(ctx, "feedback", "openai", errors.New("x"), time.Second)
	m.Upload(ctx, 4096)
	m.Error(ctx, "EXTERNAL_SERVICE_ERROR", "coach")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			found[metric.Name] = true
			if metric.Name == "speakmate.stage.calls" {
				sum := metric.Data.(metricdata.Sum[int64])
				if len(sum.DataPoints) != 2 {
					t.Errorf("stage data points = %d, want 2 (ok and error)", len(sum.DataPoints))
				}
			}
		}
	}
	for _, name := range []string{
		"speakmate.requests", "speakmate.request.duration", "speakmate.requests.in_flight",
		"speakmate.stage.calls", "speakmate.stage.duration", "speakmate.upload.size", "speakmate.errors",
	} {
		if !found[name] {
			t.Errorf("metric %s not collected", name)
		}
	}
}

func TestComponentDisabled(t *testing.T) {
	c := NewComponent(Identity{ServiceName: "speakmate-server"}, Config{}, logger.Nop())
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.tp != nil || c.mp != nil {
		t.Error("disabled component should not create providers")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Describe().Details != "disabled" {
		t.Errorf("describe = %+v", c.Describe())
	}
}

func TestComponentEnabled(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	cfg := Config{Enabled: true, Endpoint: "127.0.0.1:1", Insecure: true}
	cfg.ApplyDefaults()
	c := NewComponent(Identity{ServiceName: "speakmate-server", ServiceVersion: "test"}, cfg, logger.Nop())
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.tp == nil || c.mp == nil {
		t.Fatal("providers not created")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.Stop(ctx)
}
