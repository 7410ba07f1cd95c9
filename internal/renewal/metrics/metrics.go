package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the renewal module.
// Tracks renewal creation, closure and status transitions.
type Metrics struct {
	RenewalsCreated   prometheus.Counter
	RenewalsClosed    prometheus.Counter
	RenewalsRejected  *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
}

// New creates the renewal metrics registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RenewalsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "renewal_gateway_renewals_created_total",
			Help: "Total number of renewals created",
		}),
		RenewalsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "renewal_gateway_renewals_closed_total",
			Help: "Total number of renewals closed through the delete operation",
		}),
		RenewalsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "renewal_gateway_renewals_rejected_total",
			Help: "Renewal creations refused by a business rule, by reason",
		}, []string{"reason"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "renewal_gateway_renewal_status_transitions_total",
			Help: "Renewal status changes, by target status",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementRenewalsCreated() {
	m.RenewalsCreated.Inc()
}

func (m *Metrics) IncrementRenewalsClosed() {
	m.RenewalsClosed.Inc()
}

// IncrementRejected records a refused creation ("unknown_licence" or "open_renewal_exists").
func (m *Metrics) IncrementRejected(reason string) {
	m.RenewalsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementStatusTransition(status string) {
	m.StatusTransitions.WithLabelValues(status).Inc()
}
