package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/observability"
)

// Tracing opens a server span per request, continuing an incoming W3C
// trace context when present. Provider spans started further
// down the pipeline become its children.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := observability.StartSpan(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			if id := logger.RequestIDFromContext(ctx); id != "" {
				observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))
			observability.SetSpanAttribute(ctx, observability.AttrStatus, sw.status)
		})
	}
}
