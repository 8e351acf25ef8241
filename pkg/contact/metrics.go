package contact

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels used by the submissions counter.
const (
	OutcomeDelivered = "delivered"
	OutcomeInvalid   = "invalid"
	OutcomeHoneypot  = "honeypot"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "failed"
)

// Metrics tracks contact submissions.
type Metrics struct {
	Submissions      *prometheus.CounterVec
	InvalidFields    *prometheus.CounterVec
	DeliveryDuration prometheus.Histogram
}

// NewMetrics registers the contact metrics on reg. A nil reg registers on a
// fresh registry so repeated construction in tests never collides.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siteform_submissions_total",
			Help: "Contact submissions by outcome",
		}, []string{"outcome"}),
		InvalidFields: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siteform_invalid_fields_total",
			Help: "Invalid fields in rejected submissions by field and reason",
		}, []string{"field", "reason"}),
		DeliveryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteform_delivery_duration_seconds",
			Help:    "Duration of sink deliveries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementSubmission records one submission outcome.
func (m *Metrics) IncrementSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// IncrementInvalidField records one failing field.
func (m *Metrics) IncrementInvalidField(field, reason string) {
	if m == nil {
		return
	}
	m.InvalidFields.WithLabelValues(field, reason).Inc()
}

// ObserveDelivery records a delivery duration. Call with time.Now() taken
// before the delivery.
func (m *Metrics) ObserveDelivery(start time.Time) {
	if m == nil {
		return
	}
	m.DeliveryDuration.Observe(time.Since(start).Seconds())
}
