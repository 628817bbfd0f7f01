// Package observability provides structured logging, Prometheus metrics,
// health probes, and optional OpenTelemetry tracing for the DevHub service.
package observability
