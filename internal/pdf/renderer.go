package pdf

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

// Template selects the document layout.
type Template string

const (
	TemplateFullHistory Template = "full_history"
	TemplateSummary     Template = "summary"
)

// ErrUnknownTemplate is returned for templates the renderer does not know.
var ErrUnknownTemplate = errors.New("unknown template")

// Document is the input to a renderer. History must already be in display
// order.
type Document struct {
	Vehicle  models.Vehicle
	Customer *models.Customer
	History  []models.ServiceHistoryEntry
	// AsOf is stamped into the document metadata and header. It must come
	// from the data, not the clock, so that equal inputs render equal bytes.
	AsOf time.Time
}

// Renderer turns a document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, template Template, doc *Document) ([]byte, error)
}
