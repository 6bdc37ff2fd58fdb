// Package server provides the HTTP server: Gin routes on a ServeMux, served
// over HTTP/1.1 and h2c behind a net/http middleware stack.
//
// # Middleware
//
// Applied to every request, outermost first (server/middleware):
//
//   - Recovery: panic recovery answering {"detail": "Internal server error"}
//   - RequestID: X-Request-Id propagation into the log context
//   - Tracing: one server span per request
//   - RequestLogger: request logging and request metrics
//   - CORS: cross-origin headers and preflight
//   - RateLimit: per-client token bucket, when enabled
//   - BodySizeLimit: request body cap
//
// # Endpoints
//
// Operational endpoints (server/endpoint): /health, /livez, /version and
// /info.
package server
