package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics provides observability for payments.
type Metrics struct {
	PaymentsCreated prometheus.Counter
	PaymentAmounts  prometheus.Histogram
	LinkFailures    prometheus.Counter
}

// New creates the payment metrics registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PaymentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "renewal_gateway_payments_created_total",
			Help: "Total number of payments created and linked to a renewal",
		}),
		PaymentAmounts: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "renewal_gateway_payment_amount",
			Help:    "Amount of created payments",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
		}),
		LinkFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "renewal_gateway_payment_link_failures_total",
			Help: "Payments whose renewal link step could not complete",
		}),
	}
}

// ObserveCreated records a successfully created payment.
func (m *Metrics) ObserveCreated(amount decimal.Decimal) {
	m.PaymentsCreated.Inc()
	m.PaymentAmounts.Observe(amount.InexactFloat64())
}

func (m *Metrics) IncrementLinkFailures() {
	m.LinkFailures.Inc()
}
