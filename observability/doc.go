// Package observability wires OpenTelemetry tracing and metrics into the
// speakmate server.
//
// When telemetry is enabled, Component installs OTLP/HTTP trace and metric
// exporters as the global providers. When it is disabled the global no-op
// providers stay in place, so StartSpan and the Metrics instruments are
// always safe to call.
//
//	ctx, span := observability.StartSpan(ctx, "coach.transcribe")
//	defer span.End()
package observability
