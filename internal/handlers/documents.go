package handlers

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-service-history/internal/documents"
	"github.com/ukydev/vehicle-service-history/internal/middleware"
	"github.com/ukydev/vehicle-service-history/internal/pdf"
)

// DocumentGenerator produces service history documents.
type DocumentGenerator interface {
	Generate(ctx context.Context, req documents.Request) (*documents.Result, error)
}

// DocumentOptions tunes the HTTP contract of the document endpoints.
type DocumentOptions struct {
	// VerboseErrors echoes fault detail in 500 responses.
	VerboseErrors bool
	// UnifiedPreviewDenials makes the preview endpoint report payment
	// denials the same way the download endpoints do. Otherwise both
	// payment denials collapse into PAYMENT_REQUIRED.
	UnifiedPreviewDenials bool
}

// DocumentHandler serves the service history PDF endpoints.
type DocumentHandler struct {
	generator DocumentGenerator
	log       logrus.FieldLogger
	opts      DocumentOptions
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(generator DocumentGenerator, log logrus.FieldLogger, opts DocumentOptions) *DocumentHandler {
	return &DocumentHandler{generator: generator, log: log, opts: opts}
}

// Register mounts the document routes on mux under /api/pdf and at the bare
// paths. wrap, when non-nil, decorates every route (e.g. authentication).
func (h *DocumentHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"/vehicle-service-history/{vehicleId}":         h.DownloadHistory,
		"/vehicle-service-summary/{vehicleId}":         h.DownloadSummary,
		"/vehicle-service-history/{vehicleId}/preview": h.PreviewHistory,
	}
	for path, fn := range routes {
		var handler http.Handler = fn
		if wrap != nil {
			handler = wrap(handler)
		}
		mux.Handle("GET /api/pdf"+path, handler)
		mux.Handle("GET "+path, handler)
	}
}

// DownloadHistory returns the full history PDF as an attachment.
func (h *DocumentHandler) DownloadHistory(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pdf.TemplateFullHistory, documents.DeliveryDownload)
}

// DownloadSummary returns the summary PDF as an attachment.
func (h *DocumentHandler) DownloadSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pdf.TemplateSummary, documents.DeliveryDownload)
}

// PreviewHistory returns the full history PDF for inline display.
func (h *DocumentHandler) PreviewHistory(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pdf.TemplateFullHistory, documents.DeliveryPreview)
}

func (h *DocumentHandler) serve(w http.ResponseWriter, r *http.Request, template pdf.Template, delivery documents.Delivery) {
	vehicleID, err := strconv.ParseInt(r.PathValue("vehicleId"), 10, 64)
	if err != nil || vehicleID <= 0 {
		writeError(w, http.StatusBadRequest, "Vehicle id must be a positive integer", "INVALID_VEHICLE_ID")
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	result, err := h.generator.Generate(r.Context(), documents.Request{
		RequestID: requestID,
		VehicleID: vehicleID,
		Template:  template,
		Delivery:  delivery,
	})
	if err != nil {
		h.writeFailure(w, requestID, err)
		return
	}
	if denied, ok := result.Denied(); ok {
		h.writeDenial(w, denied, delivery)
		return
	}

	doc := result.Document
	disposition := "inline"
	if doc.Filename != "" {
		disposition = mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename})
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		h.log.WithError(err).WithField("request_id", requestID).Warn("failed to write pdf response")
	}
}

func (h *DocumentHandler) writeDenial(w http.ResponseWriter, d documents.Denied, delivery documents.Delivery) {
	action := string(delivery)
	if d.Reason == documents.ReasonVehicleNotFound {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: d.Message(action)})
		return
	}
	if delivery == documents.DeliveryPreview && !h.opts.UnifiedPreviewDenials {
		writeJSON(w, http.StatusForbidden, legacyPreviewDenial(d))
		return
	}

	body := errorResponse{Message: d.Message(action), Code: string(d.Reason)}
	switch d.Reason {
	case documents.ReasonNoPaymentLog:
		body.InvoiceID = d.InvoiceID
	case documents.ReasonPaymentNotCompleted:
		body.CurrentStatus = lo.ToPtr(d.CurrentStatus)
	}
	writeJSON(w, http.StatusForbidden, body)
}

// legacyPreviewDenial keeps the response shape existing preview clients
// depend on.
func legacyPreviewDenial(d documents.Denied) errorResponse {
	if d.Reason == documents.ReasonNoInvoice {
		return errorResponse{
			Message: "No payment found for this vehicle. Please pay to preview the PDF.",
			Code:    string(documents.ReasonNoInvoice),
		}
	}
	return errorResponse{
		Message: "Payment required. Please complete payment to preview the PDF.",
		Code:    "PAYMENT_REQUIRED",
	}
}

func (h *DocumentHandler) writeFailure(w http.ResponseWriter, requestID string, err error) {
	switch {
	case documents.IsTimeout(err):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Message: "Generating the PDF took too long",
			Code:    "REQUEST_TIMEOUT",
			ErrorID: requestID,
		})
	case documents.IsAborted(err):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Message: "Request was cancelled",
			Code:    "REQUEST_ABORTED",
			ErrorID: requestID,
		})
	default:
		body := errorResponse{
			Message: "Error generating PDF",
			Code:    "INTERNAL_ERROR",
			ErrorID: requestID,
		}
		if h.opts.VerboseErrors {
			body.Error = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}
