// Package otel provides OpenTelemetry metric exporter bindings for
// controller counters and the login latency histogram.
//
// [NewExporter] registers Int64ObservableCounter instruments for each
// counter and Int64ObservableGauge per histogram bucket. A single
// callback reads [authflow.Controller.MetricsSnapshot] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate controller state.
package otel
