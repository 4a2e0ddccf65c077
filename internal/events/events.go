// Package events carries document pipeline checkpoints to observers
// (logs, metrics, the MQTT fleet bus).
package events

import (
	"context"
	"time"
)

// Kind identifies a pipeline checkpoint.
type Kind string

const (
	KindRequested Kind = "document.requested"
	KindDecided   Kind = "entitlement.decided"
	KindProjected Kind = "history.projected"
	KindDelivered Kind = "document.delivered"
	KindFailed    Kind = "document.failed"
)

// Failure kinds reported with KindFailed.
const (
	FailureRender     = "render"
	FailureAborted    = "aborted"
	FailureUnexpected = "unexpected"
)

// Event is a single checkpoint. Fields that do not apply to a kind are left
// at their zero value.
type Event struct {
	Kind      Kind      `json:"kind"`
	At        time.Time `json:"at"`
	RequestID string    `json:"request_id,omitempty"`
	VehicleID int64     `json:"vehicle_id"`
	Template  string    `json:"template,omitempty"`
	Delivery  string    `json:"delivery,omitempty"`

	// KindDecided; Reason is empty when the request was authorized.
	Reason        string `json:"reason,omitempty"`
	InvoiceID     int64  `json:"invoice_id,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`

	// KindProjected
	Records int `json:"records,omitempty"`

	// KindDelivered
	Bytes    int           `json:"bytes,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`

	// KindFailed
	FailureKind string `json:"failure_kind,omitempty"`
	Err         error  `json:"-"`
}

// Observer receives pipeline checkpoints. Implementations must not block
// the request for long and must be safe for concurrent use.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, e Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// Nop discards every event.
var Nop Observer = ObserverFunc(func(context.Context, Event) {})

type multi []Observer

// Multi fans an event out to each observer in order.
func Multi(observers ...Observer) Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multi) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		o.Observe(ctx, e)
	}
}
