package provider

import (
	"context"

	"github.com/kbukum/speakmate/observability"
)

// WithTracing wraps each Execute in a span named "<stage>.<provider>".
func WithTracing[I, O any](stage string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		name := stage + "." + inner.Name()
		return around(inner, func(ctx context.Context, input I) (O, error) {
			ctx, span := observability.StartSpan(ctx, name)
			defer span.End()

			observability.SetSpanAttribute(ctx, observability.AttrStage, stage)
			observability.SetSpanAttribute(ctx, observability.AttrProvider, inner.Name())

			out, err := inner.Execute(ctx, input)
			observability.SetSpanError(ctx, err)
			return out, err
		})
	}
}
