package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		PaymentVerifyRequests,
		PaymentVerifyDuration,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): missing_params|not_found|amount_mismatch|rejected|gateway_unreachable|unknown
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of gateway success-callback processings by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the outbound gateway verification call grouped by result.
	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of the outbound gateway verification call in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

func IncVerify(result, reason string) {
	PaymentVerifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveVerifyDuration(result string, seconds float64) {
	PaymentVerifyDuration.WithLabelValues(norm(result)).Observe(seconds)
}
