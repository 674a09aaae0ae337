package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the Crown backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Upstream (engagement backend) metrics
	UpstreamRequestsTotal prometheus.CounterVec
	UpstreamErrors        prometheus.CounterVec

	// Business Metrics
	JoinsTotal            prometheus.Counter
	SubmissionsTotal      prometheus.Counter
	ConnectionRefreshes   prometheus.CounterVec
	SessionsExpiredTotal  prometheus.Counter
	LeaderboardFetchTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crown_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crown_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "crown_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		UpstreamRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crown_upstream_requests_total",
				Help: "Calls to the engagement backend by operation",
			},
			[]string{"operation"},
		),
		UpstreamErrors: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crown_upstream_errors_total",
				Help: "Engagement backend failures by error code",
			},
			[]string{"code"},
		),

		JoinsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crown_contest_joins_total",
				Help: "Completed contest joins",
			},
		),
		SubmissionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crown_submissions_total",
				Help: "Submission rows written",
			},
		),
		ConnectionRefreshes: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crown_connection_refreshes_total",
				Help: "TikTok connection refreshes by outcome",
			},
			[]string{"outcome"},
		),
		SessionsExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crown_sessions_expired_total",
				Help: "Sessions force-expired by the sweep",
			},
		),
		LeaderboardFetchTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crown_leaderboard_fetches_total",
				Help: "Leaderboard fetches by outcome",
			},
			[]string{"outcome"},
		),
	}
}
