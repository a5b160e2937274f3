package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	createdTotal   prometheus.Counter
	rejectedTotal  *prometheus.CounterVec
	failedTotal    *prometheus.CounterVec
	submitDuration prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autoshop",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total bookings created successfully",
		}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autoshop",
			Subsystem: "booking",
			Name:      "rejected_total",
			Help:      "Submissions rejected before any store write",
		}, []string{"reason"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autoshop",
			Subsystem: "booking",
			Name:      "failed_total",
			Help:      "Submissions failed at a remote store stage",
		}, []string{"stage"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "autoshop",
			Subsystem: "booking",
			Name:      "submit_duration_seconds",
			Help:      "Latency of the booking submission sequence",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.rejectedTotal, m.failedTotal, m.submitDuration)
	return m
}

func (m *BookingMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *BookingMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) ObserveFailed(stage string) {
	if m == nil {
		return
	}
	m.failedTotal.WithLabelValues(stage).Inc()
}

func (m *BookingMetrics) ObserveSubmitDuration(seconds float64) {
	if m == nil {
		return
	}
	m.submitDuration.Observe(seconds)
}
