package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/pdf"
)

// Delivery says how the rendered bytes are handed to the caller.
type Delivery string

const (
	DeliveryDownload Delivery = "download"
	DeliveryPreview  Delivery = "preview"
)

// Synthesizer renders projected history into a PDF.
type Synthesizer struct {
	renderer pdf.Renderer
}

// NewSynthesizer creates a synthesizer backed by renderer.
func NewSynthesizer(renderer pdf.Renderer) *Synthesizer {
	return &Synthesizer{renderer: renderer}
}

// Synthesize renders doc with template. It does not retry; a renderer error
// is marked ErrRenderFailure, or ErrAborted when ctx ended first.
func (s *Synthesizer) Synthesize(ctx context.Context, doc *pdf.Document, template pdf.Template) ([]byte, error) {
	content, err := s.renderer.Render(ctx, template, doc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, aborted(ctx, errors.Wrap(err, "render"))
		}
		return nil, errors.Mark(errors.Wrapf(err, "render %s", template), ErrRenderFailure)
	}
	return content, nil
}

// FilenamePrefix returns the attachment filename prefix for a template.
func FilenamePrefix(template pdf.Template) string {
	if template == pdf.TemplateSummary {
		return "ServiceSummary"
	}
	return "ServiceHistory"
}

// Filename builds "{Prefix}_{registration}_{yyyyMMdd}.pdf".
func Filename(template pdf.Template, registrationNumber string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf", FilenamePrefix(template), registrationNumber, at.Format("20060102"))
}
