package provider

import (
	"context"
	"time"

	"github.com/kbukum/speakmate/logger"
)

// WithLogging logs every Execute with its duration. Failures are logged at
// error level, successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return around(inner, func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			out, err := inner.Execute(ctx, input)

			fields := logger.Fields(
				logger.FieldProvider, inner.Name(),
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			l := log.WithContext(ctx)
			if err != nil {
				fields[logger.FieldError] = err.Error()
				l.Error("Provider call failed", fields)
			} else {
				l.Debug("Provider call succeeded", fields)
			}
			return out, err
		})
	}
}
