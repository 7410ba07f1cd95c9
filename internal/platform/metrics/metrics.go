package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and authorization Prometheus metrics shared by every handler.
type Metrics struct {
	RequestDuration      *prometheus.HistogramVec
	AuthorizationDenials *prometheus.CounterVec
}

// New creates and registers the shared metrics against reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "renewal_gateway_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		AuthorizationDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "renewal_gateway_authorization_denials_total",
			Help: "Requests rejected by the role gate, by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records the latency of one request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(route, method, statusLabel(status)).Observe(elapsed.Seconds())
}

// IncrementAuthorizationDenials counts a rejected request ("unauthenticated" or "forbidden").
func (m *Metrics) IncrementAuthorizationDenials(outcome string) {
	m.AuthorizationDenials.WithLabelValues(outcome).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
