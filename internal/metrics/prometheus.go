package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	DocumentsGenerated *prometheus.CounterVec
	Denials            *prometheus.CounterVec
	Failures           *prometheus.CounterVec
	GenerationTime     prometheus.Histogram
}

// NewMetrics creates the document metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "The total number of service history documents delivered",
		}, []string{"template", "delivery"}),
		Denials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_denials_total",
			Help:      "The total number of document requests refused by the entitlement check",
		}, []string{"reason"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_failures_total",
			Help:      "The total number of document requests that failed",
		}, []string{"kind"}),
		GenerationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_generation_seconds",
			Help:      "Time taken to resolve, project and render a document",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
