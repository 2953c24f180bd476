package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	LoginsTotal     prometheus.Counter
	LoginFailures   *prometheus.CounterVec
	TokensIssued    prometheus.Counter
	TokensRefreshed prometheus.Counter
	GuardRejections prometheus.Counter
	EndpointLatency *prometheus.HistogramVec

	// Teamdeck upstream client metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LoginsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trackergw_logins_total",
			Help: "Total number of successful Google logins",
		}),
		LoginFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trackergw_login_failures_total",
			Help: "Total number of failed logins, labeled by reason code",
		}, []string{"reason"}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trackergw_tokens_issued_total",
			Help: "Total number of session token pairs issued",
		}),
		TokensRefreshed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trackergw_tokens_refreshed_total",
			Help: "Total number of refresh token redemptions",
		}),
		GuardRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trackergw_guard_rejections_total",
			Help: "Total number of requests rejected by the auth guard",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trackergw_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trackergw_upstream_requests_total",
			Help: "Total Teamdeck API requests, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trackergw_upstream_latency_seconds",
			Help:    "Latency of Teamdeck API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementLogins() {
	m.LoginsTotal.Inc()
}

func (m *Metrics) IncrementLoginFailures(reason string) {
	m.LoginFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementTokensIssued() {
	m.TokensIssued.Inc()
}

func (m *Metrics) IncrementTokensRefreshed() {
	m.TokensRefreshed.Inc()
}

func (m *Metrics) IncrementGuardRejections() {
	m.GuardRejections.Inc()
}

func (m *Metrics) ObserveUpstream(operation, outcome string, seconds float64) {
	m.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(operation).Observe(seconds)
}
