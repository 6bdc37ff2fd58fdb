package provider_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/observability"
	"github.com/kbukum/speakmate/provider"
)

func echo(name string) provider.Func[string, string] {
	return provider.Func[string, string]{
		ProviderName: name,
		Fn: func(_ context.Context, in string) (string, error) {
			return "echo:" + in, nil
		},
	}
}

func failing(err error) provider.Func[string, string] {
	return provider.Func[string, string]{
		ProviderName: "broken",
		Fn:           func(context.Context, string) (string, error) { return "", err },
		Available:    func(context.Context) bool { return false },
	}
}

func TestFunc(t *testing.T) {
	p := echo("openai")
	if p.Name() != "openai" || !p.IsAvailable(context.Background()) {
		t.Errorf("name/available = %q/%v", p.Name(), p.IsAvailable(context.Background()))
	}
	if failing(nil).IsAvailable(context.Background()) {
		t.Error("explicit Available func should be used")
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return provider.Func[string, string]{
				ProviderName: inner.Name(),
				Fn: func(ctx context.Context, in string) (string, error) {
					order = append(order, name+">")
					out, err := inner.Execute(ctx, in)
					order = append(order, "<"+name)
					return out, err
				},
			}
		}
	}

	wrapped := provider.Chain(tag("A"), tag("B"))(echo("openai"))
	out, err := wrapped.Execute(context.Background(), "hi")
	if err != nil || out != "echo:hi" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if got := strings.Join(order, ""); got != "A>B><B<A" {
		t.Errorf("order = %s", got)
	}
	if wrapped.Name() != "openai" {
		t.Errorf("name should pass through, got %q", wrapped.Name())
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Writer: &buf}, "test")

	wrapped := provider.WithLogging[string, string](log)(failing(errors.New("401 unauthorized")))
	if _, err := wrapped.Execute(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "Provider call failed") || !strings.Contains(out, "401 unauthorized") {
		t.Errorf("log = %s", out)
	}
	if wrapped.IsAvailable(context.Background()) {
		t.Error("availability should pass through")
	}
}

func TestWithTimeout(t *testing.T) {
	slow := provider.Func[string, string]{
		ProviderName: "slow",
		Fn: func(ctx context.Context, _ string) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second):
				return "late", nil
			}
		},
	}

	_, err := provider.WithTimeout[string, string](20*time.Millisecond)(slow).Execute(context.Background(), "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	p := echo("fast")
	if got := provider.WithTimeout[string, string](0)(p); got.Name() != "fast" {
		t.Error("zero timeout should return the provider unchanged")
	}
}

func TestWithTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	wrapped := provider.WithTracing[string, string]("transcribe")(echo("openai"))
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "transcribe.openai" {
		t.Fatalf("spans = %v", spans)
	}
}

func TestWithMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	defer mp.Shutdown(context.Background())
	m, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	wrapped := provider.WithMetrics[string, string]("feedback", m)(echo("openai"))
	if out, err := wrapped.Execute(context.Background(), "x"); err != nil || out != "echo:x" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
}
