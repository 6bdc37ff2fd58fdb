package provider

import (
	"context"
	"time"

	"github.com/kbukum/speakmate/observability"
)

// WithMetrics records each Execute as a pipeline stage.
func WithMetrics[I, O any](stage string, metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return around(inner, func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			out, err := inner.Execute(ctx, input)
			metrics.Stage(ctx, stage, inner.Name(), err, time.Since(start))
			return out, err
		})
	}
}
