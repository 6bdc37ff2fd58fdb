package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/kbukum/speakmate/resilience"
)

// KeyFunc extracts the rate limit key from a request.
type KeyFunc func(*http.Request) string

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	Rate    float64 `yaml:"rate" mapstructure:"rate"`   // tokens per second
	Burst   int     `yaml:"burst" mapstructure:"burst"` // bucket size
	// SkipPaths are never limited for GET and HEAD, so liveness probes
	// keep answering while a client is throttled.
	SkipPaths []string `yaml:"skip_paths" mapstructure:"skip_paths"`
}

// RateLimit applies a per-key token bucket from limiter. Rejected requests
// get 429 with a detail body. A nil keyFn keys by client IP. GET and HEAD
// requests for one of skipPaths bypass the limiter and take no token.
func RateLimit(limiter *resilience.KeyedRateLimiter, keyFn KeyFunc, skipPaths ...string) Middleware {
	if keyFn == nil {
		keyFn = IPBasedKey
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				if _, ok := skip[r.URL.Path]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			if !limiter.Allow(keyFn(r)) {
				w.Header().Set("Retry-After", "1")
				writeDetail(w, http.StatusTooManyRequests, "Too many requests. Please wait a moment and try again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IPBasedKey keys by the remote host.
func IPBasedKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SweepEvery drops idle buckets from limiter on every tick until ctx is done.
func SweepEvery(ctx context.Context, limiter *resilience.KeyedRateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
