package events

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogObserver writes checkpoints to a logrus logger.
type LogObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver creates a log observer.
func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	return &LogObserver{log: log}
}

// Observe logs the event with its non-empty fields.
func (o *LogObserver) Observe(_ context.Context, e Event) {
	fields := logrus.Fields{
		"event":      string(e.Kind),
		"vehicle_id": e.VehicleID,
	}
	if e.RequestID != "" {
		fields["request_id"] = e.RequestID
	}
	if e.Template != "" {
		fields["template"] = e.Template
	}
	if e.Delivery != "" {
		fields["delivery"] = e.Delivery
	}
	entry := o.log.WithFields(fields)

	switch e.Kind {
	case KindRequested:
		entry.Info("document requested")
	case KindDecided:
		if e.InvoiceID != 0 {
			entry = entry.WithField("invoice_id", e.InvoiceID)
		}
		if e.PaymentStatus != "" {
			entry = entry.WithField("payment_status", e.PaymentStatus)
		}
		if e.Reason == "" {
			entry.Info("payment verified")
			return
		}
		entry.WithField("reason", e.Reason).Warn("document request denied")
	case KindProjected:
		entry.WithField("records", e.Records).Info("service history projected")
	case KindDelivered:
		entry.WithFields(logrus.Fields{
			"bytes":       e.Bytes,
			"duration_ms": e.Duration.Milliseconds(),
		}).Info("document delivered")
	case KindFailed:
		// Full detail stays server side; callers only see the request id.
		entry.WithFields(logrus.Fields{
			"failure_kind": e.FailureKind,
			"detail":       fmt.Sprintf("%+v", e.Err),
		}).WithError(e.Err).Error("document generation failed")
	default:
		entry.Debug("unknown event")
	}
}
