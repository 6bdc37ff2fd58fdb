package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/observability"
)

var probePaths = map[string]bool{
	"/health":  true,
	"/livez":   true,
	"/version": true,
}

// RequestLogger logs every request with method, path, status and duration,
// and records it in metrics when metrics is non-nil. Probe endpoints are
// neither logged nor counted.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if metrics != nil {
				metrics.RequestStarted(ctx)
			}
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			if metrics != nil {
				metrics.RequestFinished(ctx, r.URL.Path, sw.status, duration)
			}
			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				logger.FieldStatus:   sw.status,
				logger.FieldDuration: duration.Milliseconds(),
				"size":               sw.size,
				"remote":             r.RemoteAddr,
			}
			logByStatus(log.WithContext(ctx), fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}
