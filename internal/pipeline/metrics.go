package pipeline

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricEventsTotal = "jetweight_events_total"
	MetricJetsTotal   = "jetweight_jets_total"
	MetricWeight      = "jetweight_event_weight"
)

// Status label values for event processing.
const (
	StatusWeighted = "weighted"
	StatusRejected = "rejected"
)

// Metrics holds the Prometheus collectors for the weighting pipeline.
// All operations are safe for concurrent use.
type Metrics struct {
	eventsTotal *prometheus.CounterVec
	jetsTotal   *prometheus.CounterVec
	weight      prometheus.Histogram
}

// NewMetrics creates the collectors unregistered; call Register to
// attach them to a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEventsTotal,
				Help: "Total number of events processed by source and status",
			},
			[]string{"source", "status"},
		),
		jetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricJetsTotal,
				Help: "Total number of jets processed by flavor and tag decision",
			},
			[]string{"flavor", "tagged"},
		),
		weight: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricWeight,
				Help:    "Distribution of computed event correction weights",
				Buckets: []float64{0.5, 0.7, 0.8, 0.9, 0.95, 1.0, 1.05, 1.1, 1.2, 1.5, 2.0},
			},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.eventsTotal, m.jetsTotal, m.weight} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveEvent(source, status string, weight float64) {
	if source == "" {
		source = "unknown"
	}
	m.eventsTotal.WithLabelValues(source, status).Inc()
	if status == StatusWeighted {
		m.weight.Observe(weight)
	}
}

func (m *Metrics) ObserveJet(flavor string, tagged bool) {
	m.jetsTotal.WithLabelValues(flavor, strconv.FormatBool(tagged)).Inc()
}
