package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the licence module.
type Metrics struct {
	LicencesUpdated        prometheus.Counter
	ListExpiringDuration   prometheus.Histogram
	ExpiringLicencesListed prometheus.Counter
}

// New creates the licence metrics registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LicencesUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "renewal_gateway_licences_updated_total",
			Help: "Total number of licence updates committed",
		}),
		ListExpiringDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "renewal_gateway_list_expiring_duration_seconds",
			Help:    "Duration of expiring-licence scans",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ExpiringLicencesListed: factory.NewCounter(prometheus.CounterOpts{
			Name: "renewal_gateway_expiring_licences_listed_total",
			Help: "Total number of licences returned by expiring scans",
		}),
	}
}

func (m *Metrics) IncrementLicencesUpdated() {
	m.LicencesUpdated.Inc()
}

// ObserveListExpiring records one scan. Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveListExpiring(start time.Time, found int) {
	m.ListExpiringDuration.Observe(time.Since(start).Seconds())
	m.ExpiringLicencesListed.Add(float64(found))
}
