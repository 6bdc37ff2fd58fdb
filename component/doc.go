// Package component defines the lifecycle contract shared by the pieces a
// speakmate binary starts and stops: the HTTP server, telemetry exporters
// and the coaching service.
//
// A Registry starts components in registration order, stops them in
// reverse and aggregates their health for the /health endpoint.
package component
