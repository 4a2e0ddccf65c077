// Package documents generates payment-gated service history PDFs.
//
// A request runs three stages in order: the Resolver checks that the
// vehicle's latest invoice is paid, the Projector builds the display history,
// and the Synthesizer renders it. A denial or error at any stage ends the
// request.
package documents

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/events"
	"github.com/ukydev/vehicle-service-history/internal/models"
	"github.com/ukydev/vehicle-service-history/internal/pdf"
)

// Request describes one document request.
type Request struct {
	RequestID string
	VehicleID int64
	Template  pdf.Template
	Delivery  Delivery
}

// Document is a rendered PDF ready for delivery. Filename is empty for
// previews.
type Document struct {
	Content  []byte
	Filename string
	Template pdf.Template
	Delivery Delivery
}

// Result holds the entitlement decision and, when authorized, the document.
type Result struct {
	Decision Decision
	Document *Document
}

// Denied returns the denial and true when the request was refused.
func (r *Result) Denied() (Denied, bool) {
	d, ok := r.Decision.(Denied)
	return d, ok
}

// Generator runs the resolve, project, synthesize pipeline.
type Generator struct {
	resolver    *Resolver
	projector   *Projector
	synthesizer *Synthesizer
	customers   db.VehicleReader
	observer    events.Observer
	timeout     time.Duration
	now         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithObserver sets the checkpoint observer.
func WithObserver(o events.Observer) Option {
	return func(g *Generator) { g.observer = o }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithClock replaces time.Now, which is used for filenames and durations.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator wires the pipeline stages. customers is used to look up the
// vehicle owner shown on the document.
func NewGenerator(resolver *Resolver, projector *Projector, synthesizer *Synthesizer, customers db.VehicleReader, opts ...Option) *Generator {
	g := &Generator{
		resolver:    resolver,
		projector:   projector,
		synthesizer: synthesizer,
		customers:   customers,
		observer:    events.Nop,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the pipeline for req. Denials are returned in the Result
// with a nil error. Errors are marked ErrRenderFailure or ErrAborted where
// applicable; anything else is unexpected.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	start := g.now()
	g.emit(ctx, req, events.Event{Kind: events.KindRequested})

	decision, err := g.resolver.Resolve(ctx, req.VehicleID)
	if err != nil {
		return nil, g.fail(ctx, req, err)
	}
	g.emit(ctx, req, decisionEvent(decision))

	authorized, ok := decision.(Authorized)
	if !ok {
		return &Result{Decision: decision}, nil
	}

	history, err := g.projector.Project(ctx, req.VehicleID)
	if err != nil {
		return nil, g.fail(ctx, req, err)
	}
	g.emit(ctx, req, events.Event{Kind: events.KindProjected, Records: len(history)})

	customer, err := g.customer(ctx, authorized.Vehicle.CustomerID)
	if err != nil {
		return nil, g.fail(ctx, req, err)
	}

	content, err := g.synthesizer.Synthesize(ctx, &pdf.Document{
		Vehicle:  *authorized.Vehicle,
		Customer: customer,
		History:  history,
		AsOf:     authorized.Invoice.InvoiceDate,
	}, req.Template)
	if err != nil {
		return nil, g.fail(ctx, req, err)
	}

	doc := &Document{
		Content:  content,
		Template: req.Template,
		Delivery: req.Delivery,
	}
	if req.Delivery == DeliveryDownload {
		doc.Filename = Filename(req.Template, authorized.Vehicle.RegistrationNumber, g.now())
	}
	g.emit(ctx, req, events.Event{
		Kind:     events.KindDelivered,
		Bytes:    len(content),
		Duration: g.now().Sub(start),
	})
	return &Result{Decision: decision, Document: doc}, nil
}

// customer returns the vehicle owner, or nil when the record is missing.
func (g *Generator) customer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := g.customers.FindCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load customer")
	}
	return customer, nil
}

func (g *Generator) fail(ctx context.Context, req Request, err error) error {
	err, kind := classify(ctx, err)
	g.emit(ctx, req, events.Event{Kind: events.KindFailed, FailureKind: kind, Err: err})
	return err
}

func (g *Generator) emit(ctx context.Context, req Request, e events.Event) {
	e.At = g.now()
	e.RequestID = req.RequestID
	e.VehicleID = req.VehicleID
	e.Template = string(req.Template)
	e.Delivery = string(req.Delivery)
	// Observers run after cancellation too, so that aborted requests are
	// still reported.
	g.observer.Observe(context.WithoutCancel(ctx), e)
}

func decisionEvent(d Decision) events.Event {
	e := events.Event{Kind: events.KindDecided}
	switch d := d.(type) {
	case Authorized:
		e.InvoiceID = d.Invoice.ID
		e.PaymentStatus = d.PaymentLog.Status
	case Denied:
		e.Reason = string(d.Reason)
		e.InvoiceID = d.InvoiceID
		e.PaymentStatus = d.CurrentStatus
	}
	return e
}
