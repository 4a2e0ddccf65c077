package documents

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vehicle-service-history/internal/events"
	"github.com/ukydev/vehicle-service-history/internal/pdf"
	"github.com/ukydev/vehicle-service-history/internal/testutil"
)

var fixedNow = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Observe(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type renderFunc func(ctx context.Context, template pdf.Template, doc *pdf.Document) ([]byte, error)

func (f renderFunc) Render(ctx context.Context, template pdf.Template, doc *pdf.Document) ([]byte, error) {
	return f(ctx, template, doc)
}

func newTestGenerator(store *testutil.InMemoryStore, renderer pdf.Renderer, opts ...Option) (*Generator, *recorder) {
	rec := &recorder{}
	opts = append([]Option{WithObserver(rec), WithClock(func() time.Time { return fixedNow })}, opts...)
	g := NewGenerator(
		NewResolver(store, store, store),
		NewProjector(store, store),
		NewSynthesizer(renderer),
		store,
		opts...,
	)
	return g, rec
}

func TestGenerator_FullHistoryDownload(t *testing.T) {
	store := testutil.PaymentScenarioStore()
	g, rec := newTestGenerator(store, pdf.NewFPDFRenderer("Vehicle Passport"))

	result, err := g.Generate(context.Background(), Request{
		RequestID: "req-1",
		VehicleID: testutil.PaidVehicleID,
		Template:  pdf.TemplateFullHistory,
		Delivery:  DeliveryDownload,
	})

	require.NoError(t, err)
	_, denied := result.Denied()
	assert.False(t, denied)
	require.NotNil(t, result.Document)
	assert.True(t, bytes.HasPrefix(result.Document.Content, []byte("%PDF-")))
	assert.Equal(t, "ServiceHistory_CAB-1234_20261017.pdf", result.Document.Filename)
	assert.Equal(t, DeliveryDownload, result.Document.Delivery)

	assert.Equal(t, []events.Kind{
		events.KindRequested,
		events.KindDecided,
		events.KindProjected,
		events.KindDelivered,
	}, rec.kinds())
	delivered := rec.last()
	assert.Equal(t, "req-1", delivered.RequestID)
	assert.Equal(t, len(result.Document.Content), delivered.Bytes)
}

func TestGenerator_SummaryAndPreview(t *testing.T) {
	store := testutil.PaymentScenarioStore()
	g, _ := newTestGenerator(store, pdf.NewFPDFRenderer("Vehicle Passport"))

	summary, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateSummary, Delivery: DeliveryDownload})
	require.NoError(t, err)
	assert.Equal(t, "ServiceSummary_CAB-1234_20261017.pdf", summary.Document.Filename)

	preview, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryPreview})
	require.NoError(t, err)
	assert.Empty(t, preview.Document.Filename)
	assert.Equal(t, DeliveryPreview, preview.Document.Delivery)
}

func TestGenerator_Idempotent(t *testing.T) {
	store := testutil.PaymentScenarioStore()
	g := NewGenerator(
		NewResolver(store, store, store),
		NewProjector(store, store),
		NewSynthesizer(pdf.NewFPDFRenderer("Vehicle Passport")),
		store,
	)
	req := Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryDownload}

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Document.Content, second.Document.Content))
}

func TestGenerator_DenialsStopThePipeline(t *testing.T) {
	tests := []struct {
		name      string
		vehicleID int64
		expected  Denied
	}{
		{"missing vehicle", testutil.MissingVehicleID, Denied{Reason: ReasonVehicleNotFound, VehicleID: testutil.MissingVehicleID}},
		{"no invoice", testutil.UninvoicedVehicleID, Denied{Reason: ReasonNoInvoice, VehicleID: testutil.UninvoicedVehicleID}},
		{"no payment log", testutil.UnloggedVehicleID, Denied{Reason: ReasonNoPaymentLog, VehicleID: testutil.UnloggedVehicleID, InvoiceID: testutil.UnloggedInvoiceID}},
		{"pending", testutil.PendingVehicleID, Denied{Reason: ReasonPaymentNotCompleted, VehicleID: testutil.PendingVehicleID, InvoiceID: 9, CurrentStatus: "Pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.PaymentScenarioStore()
			rendered := false
			g, rec := newTestGenerator(store, renderFunc(func(context.Context, pdf.Template, *pdf.Document) ([]byte, error) {
				rendered = true
				return []byte("%PDF-"), nil
			}))

			result, err := g.Generate(context.Background(), Request{VehicleID: tt.vehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryDownload})

			require.NoError(t, err)
			denied, ok := result.Denied()
			require.True(t, ok)
			assert.Equal(t, tt.expected, denied)
			assert.Nil(t, result.Document)
			assert.False(t, rendered)
			assert.Zero(t, store.CallCount("FindServiceHistory"))
			assert.Equal(t, []events.Kind{events.KindRequested, events.KindDecided}, rec.kinds())
			assert.Equal(t, string(tt.expected.Reason), rec.last().Reason)
		})
	}
}

func TestGenerator_RenderFailure(t *testing.T) {
	store := testutil.PaymentScenarioStore()
	g, rec := newTestGenerator(store, renderFunc(func(context.Context, pdf.Template, *pdf.Document) ([]byte, error) {
		return nil, errors.New("font missing")
	}))

	result, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateSummary, Delivery: DeliveryDownload})

	assert.Nil(t, result)
	assert.True(t, IsRenderFailure(err))
	assert.False(t, IsAborted(err))
	assert.Contains(t, err.Error(), "font missing")
	failed := rec.last()
	assert.Equal(t, events.KindFailed, failed.Kind)
	assert.Equal(t, events.FailureRender, failed.FailureKind)
}

func TestGenerator_UnexpectedFault(t *testing.T) {
	store := testutil.PaymentScenarioStore()
	store.Errors["FindLatestInvoice"] = errors.New("server selection timeout")
	g, rec := newTestGenerator(store, pdf.NewFPDFRenderer("Vehicle Passport"))

	_, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryDownload})

	require.Error(t, err)
	assert.False(t, IsRenderFailure(err))
	assert.False(t, IsAborted(err))
	assert.Equal(t, events.FailureUnexpected, rec.last().FailureKind)
}

func TestGenerator_CustomerLookup(t *testing.T) {
	t.Run("missing customer still renders", func(t *testing.T) {
		store := testutil.PaymentScenarioStore()
		store.Customers = nil
		var got *pdf.Document
		g, _ := newTestGenerator(store, renderFunc(func(_ context.Context, _ pdf.Template, doc *pdf.Document) ([]byte, error) {
			got = doc
			return []byte("%PDF-"), nil
		}))

		_, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryPreview})

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Customer)
		assert.Equal(t, testutil.Date(2024, time.June, 2), got.AsOf)
		assert.Len(t, got.History, 3)
	})

	t.Run("lookup fault fails the request", func(t *testing.T) {
		store := testutil.PaymentScenarioStore()
		store.Errors["FindCustomerByID"] = errors.New("boom")
		g, _ := newTestGenerator(store, pdf.NewFPDFRenderer("Vehicle Passport"))

		_, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryPreview})

		assert.Error(t, err)
	})
}

func TestGenerator_Aborted(t *testing.T) {
	t.Run("cancelled by caller", func(t *testing.T) {
		store := testutil.PaymentScenarioStore()
		g, rec := newTestGenerator(store, pdf.NewFPDFRenderer("Vehicle Passport"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := g.Generate(ctx, Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryDownload})

		assert.True(t, IsAborted(err))
		assert.False(t, IsTimeout(err))
		assert.False(t, IsRenderFailure(err))
		assert.Equal(t, events.FailureAborted, rec.last().FailureKind)
	})

	t.Run("renderer outlives the timeout", func(t *testing.T) {
		store := testutil.PaymentScenarioStore()
		g, _ := newTestGenerator(store, renderFunc(func(ctx context.Context, _ pdf.Template, _ *pdf.Document) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}), WithTimeout(20*time.Millisecond))

		_, err := g.Generate(context.Background(), Request{VehicleID: testutil.PaidVehicleID, Template: pdf.TemplateFullHistory, Delivery: DeliveryDownload})

		assert.True(t, IsAborted(err))
		assert.True(t, IsTimeout(err))
		assert.False(t, IsRenderFailure(err))
	})
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, time.March, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "ServiceHistory_ABC-123_20250304.pdf", Filename(pdf.TemplateFullHistory, "ABC-123", at))
	assert.Equal(t, "ServiceSummary_ABC-123_20250304.pdf", Filename(pdf.TemplateSummary, "ABC-123", at))
}

func TestGenerator_DefaultClockIsUTC(t *testing.T) {
	g := NewGenerator(nil, nil, nil, nil)

	assert.Equal(t, time.UTC, g.now().Location())
}
