// Package prometheus renders controller metrics in Prometheus text
// exposition format.
//
// [NewExporter] accepts an [authflow.Controller] and exposes an
// [http.Handler] that renders all counters and the login latency
// histogram. Counter names are prefixed authflow_*_total; the single
// histogram is authflow_login_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount
//     the Handler.
//   - Mutate controller state.
package prometheus
