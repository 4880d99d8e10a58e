package internaldefs

import (
	"github.com/goodwiins/authflow"
)

// CounterDef names one exported counter series.
type CounterDef struct {
	ID   authflow.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram series.
type HistogramDef struct {
	ID   authflow.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter both exporters publish, in a stable
// order.
var CounterDefs = []CounterDef{
	{ID: authflow.MetricLoginSuccess, Name: "authflow_login_success_total", Help: "Successful login flows."},
	{ID: authflow.MetricLoginFailure, Name: "authflow_login_failure_total", Help: "Failed login flows."},
	{ID: authflow.MetricLoginBlocked, Name: "authflow_login_blocked_total", Help: "Login attempts blocked by the local gate."},
	{ID: authflow.MetricProfileRedirect, Name: "authflow_profile_redirect_total", Help: "Logins routed to profile completion."},
	{ID: authflow.MetricLogoutSuccess, Name: "authflow_logout_success_total", Help: "Successful logout flows."},
	{ID: authflow.MetricLogoutFailure, Name: "authflow_logout_failure_total", Help: "Failed logout flows."},
	{ID: authflow.MetricLogoutDeclined, Name: "authflow_logout_declined_total", Help: "Logouts declined at the confirmation prompt."},
}

// HistogramDefs lists every histogram both exporters publish.
var HistogramDefs = []HistogramDef{
	{ID: authflow.MetricLoginLatency, Name: "authflow_login_latency_seconds", Help: "Full login flow latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, Prometheus le
// label form.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// OTel instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms use.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
