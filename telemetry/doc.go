// Package telemetry holds the observability plumbing shared by the twch
// binaries: slog setup from LOG_LEVEL/LOG_FORMAT, correlation IDs carried in
// request contexts, Prometheus counters for chat streams and Helix calls, and
// optional OpenTelemetry tracing.
//
// Tracing exports spans over OTLP/gRPC only when OTEL_EXPORTER_OTLP_ENDPOINT
// is set. Incoming W3C traceparent headers are honored either way, so an HTTP
// span joins the caller's trace when one exists.
package telemetry
