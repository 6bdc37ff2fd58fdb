package provider

import (
	"context"
	"time"
)

// WithTimeout bounds each Execute with d. A non-positive d leaves calls
// unbounded.
func WithTimeout[I, O any](d time.Duration) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if d <= 0 {
			return inner
		}
		return around(inner, func(ctx context.Context, input I) (O, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return inner.Execute(ctx, input)
		})
	}
}
