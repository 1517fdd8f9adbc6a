package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medcore/clinic-console/internal/audit"
)

// APIMetrics exposes counters/histograms for the records API.
type APIMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	mutationsTotal *prometheus.CounterVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		}, []string{"route", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "api",
			Name:      "request_latency_seconds",
			Help:      "Latency of API request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "records",
			Name:      "mutations_total",
			Help:      "Total record mutations by entity and action",
		}, []string{"entity", "action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency, m.mutationsTotal)
	return m
}

func (m *APIMetrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, status).Inc()
	m.requestLatency.WithLabelValues(route, method).Observe(seconds)
}

func (m *APIMetrics) ObserveMutation(entity, action string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(entity, action).Inc()
}

// InstrumentRecorder decorates an audit recorder so every recorded
// mutation also increments the mutation counter.
func (m *APIMetrics) InstrumentRecorder(next audit.Recorder) audit.Recorder {
	if next == nil {
		next = audit.NopRecorder{}
	}
	return instrumentedRecorder{metrics: m, next: next}
}

type instrumentedRecorder struct {
	metrics *APIMetrics
	next    audit.Recorder
}

func (r instrumentedRecorder) Record(ctx context.Context, event audit.Event) {
	r.metrics.ObserveMutation(event.Entity, string(event.Action))
	r.next.Record(ctx, event)
}
