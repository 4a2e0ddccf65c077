package events

import (
	"context"

	"github.com/ukydev/vehicle-service-history/internal/metrics"
)

// MetricsObserver turns checkpoints into Prometheus samples.
type MetricsObserver struct {
	metrics *metrics.Metrics
}

// NewMetricsObserver creates a metrics observer.
func NewMetricsObserver(m *metrics.Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

// Observe records denials, deliveries and failures.
func (o *MetricsObserver) Observe(_ context.Context, e Event) {
	switch e.Kind {
	case KindDecided:
		if e.Reason != "" {
			o.metrics.Denials.WithLabelValues(e.Reason).Inc()
		}
	case KindDelivered:
		o.metrics.DocumentsGenerated.WithLabelValues(e.Template, e.Delivery).Inc()
		o.metrics.GenerationTime.Observe(e.Duration.Seconds())
	case KindFailed:
		o.metrics.Failures.WithLabelValues(e.FailureKind).Inc()
	}
}
