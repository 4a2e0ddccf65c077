package pdf

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

const (
	fontFamily = "Helvetica"
	dateLayout = "2006-01-02"
	rowHeight  = 7.0
	noteHeight = 5.0
)

var (
	headerFill = [3]int{33, 66, 99}
	stripeFill = [3]int{240, 244, 248}
)

type column struct {
	title string
	width float64
	align string
}

var historyColumns = []column{
	{"Date", 22, "L"},
	{"Service", 30, "L"},
	{"Description", 48, "L"},
	{"Provider", 34, "L"},
	{"Mileage", 18, "R"},
	{"Cost", 18, "R"},
	{"Verified", 10, "C"},
}

// FPDFRenderer renders documents in-process with fpdf core fonts.
type FPDFRenderer struct {
	issuer string
}

// NewFPDFRenderer creates a renderer that stamps issuer as the document
// author.
func NewFPDFRenderer(issuer string) *FPDFRenderer {
	return &FPDFRenderer{issuer: issuer}
}

// Render implements Renderer.
func (r *FPDFRenderer) Render(ctx context.Context, template Template, doc *Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("nil document")
	}

	var title string
	var body func(*page, *Document)
	switch template {
	case TemplateFullHistory:
		title, body = "Vehicle Service History", writeFullHistory
	case TemplateSummary:
		title, body = "Vehicle Service Summary", writeSummary
	default:
		return nil, errors.Wrapf(ErrUnknownTemplate, "%q", template)
	}

	p := r.newPage(title, doc)
	p.header(title, doc)
	body(p, doc)

	var buf bytes.Buffer
	if err := p.f.Output(&buf); err != nil {
		return nil, errors.Wrapf(err, "write %s pdf", template)
	}
	return buf.Bytes(), nil
}

// page wraps an fpdf document with a cp1252 translator for core fonts.
type page struct {
	f  *fpdf.Fpdf
	tr func(string) string
}

func (r *FPDFRenderer) newPage(title string, doc *Document) *page {
	asOf := doc.AsOf
	if asOf.IsZero() {
		asOf = time.Unix(0, 0).UTC()
	}

	f := fpdf.New("P", "mm", "A4", "")
	f.SetCreationDate(asOf)
	f.SetModificationDate(asOf)
	f.SetCatalogSort(true)
	f.SetTitle(title+" "+doc.Vehicle.RegistrationNumber, true)
	f.SetAuthor(r.issuer, true)
	f.SetCreator(r.issuer, true)
	f.SetMargins(15, 15, 15)
	f.SetAutoPageBreak(true, 18)
	f.AliasNbPages("")

	p := &page{f: f, tr: f.UnicodeTranslatorFromDescriptor("")}
	f.SetFooterFunc(func() {
		f.SetY(-12)
		f.SetFont(fontFamily, "I", 8)
		f.SetTextColor(120, 120, 120)
		f.CellFormat(0, 6, p.tr(fmt.Sprintf("%s - page %d/{nb}", r.issuer, f.PageNo())), "", 0, "C", false, 0, "")
	})
	f.AddPage()
	return p
}

func (p *page) header(title string, doc *Document) {
	f := p.f
	f.SetFont(fontFamily, "B", 18)
	f.SetTextColor(headerFill[0], headerFill[1], headerFill[2])
	f.CellFormat(0, 10, p.tr(title), "", 1, "L", false, 0, "")
	f.SetDrawColor(headerFill[0], headerFill[1], headerFill[2])
	f.SetLineWidth(0.5)
	left, _, right, _ := f.GetMargins()
	pageWidth, _ := f.GetPageSize()
	f.Line(left, f.GetY(), pageWidth-right, f.GetY())
	f.Ln(4)

	v := doc.Vehicle
	vehicleLine := v.Make + " " + v.Model
	if v.Year > 0 {
		vehicleLine += " (" + strconv.Itoa(v.Year) + ")"
	}
	owner := "-"
	if doc.Customer != nil {
		owner = doc.Customer.FullName()
	}

	p.field("Registration", v.RegistrationNumber)
	if v.Make != "" || v.Model != "" {
		p.field("Vehicle", vehicleLine)
	}
	p.field("Owner", owner)
	p.field("Records as of", doc.AsOf.Format(dateLayout))
	f.Ln(4)
}

func (p *page) field(label, value string) {
	p.f.SetTextColor(0, 0, 0)
	p.f.SetFont(fontFamily, "B", 10)
	p.f.CellFormat(40, 6, p.tr(label+":"), "", 0, "L", false, 0, "")
	p.f.SetFont(fontFamily, "", 10)
	p.f.CellFormat(0, 6, p.tr(value), "", 1, "L", false, 0, "")
}

func (p *page) sectionTitle(text string) {
	p.f.SetFont(fontFamily, "B", 12)
	p.f.SetTextColor(headerFill[0], headerFill[1], headerFill[2])
	p.f.CellFormat(0, 8, p.tr(text), "", 1, "L", false, 0, "")
	p.f.SetTextColor(0, 0, 0)
}

func (p *page) tableHeader(cols []column) {
	f := p.f
	f.SetFont(fontFamily, "B", 9)
	f.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	f.SetTextColor(255, 255, 255)
	for _, c := range cols {
		f.CellFormat(c.width, rowHeight, p.tr(c.title), "1", 0, "C", true, 0, "")
	}
	f.Ln(-1)
	f.SetTextColor(0, 0, 0)
	f.SetFont(fontFamily, "", 8)
}

func (p *page) row(cols []column, values []string, striped bool) {
	f := p.f
	f.SetFillColor(stripeFill[0], stripeFill[1], stripeFill[2])
	for i, c := range cols {
		f.CellFormat(c.width, rowHeight, p.fit(values[i], c.width-2), "1", 0, c.align, striped, 0, "")
	}
	f.Ln(-1)
}

// fit translates s and truncates it to width, marking the cut with "...".
func (p *page) fit(s string, width float64) string {
	s = p.tr(s)
	if p.f.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && p.f.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func writeFullHistory(p *page, doc *Document) {
	p.sectionTitle(fmt.Sprintf("Service records (%d)", len(doc.History)))
	if len(doc.History) == 0 {
		p.f.SetFont(fontFamily, "I", 10)
		p.f.CellFormat(0, 8, p.tr("No service records on file."), "", 1, "L", false, 0, "")
		return
	}

	p.tableHeader(historyColumns)
	tableWidth := lo.SumBy(historyColumns, func(c column) float64 { return c.width })
	for i, e := range doc.History {
		verified := "No"
		if e.IsVerified {
			verified = "Yes"
		}
		provider := e.ProviderName()
		if provider == "" {
			provider = "-"
		}
		p.row(historyColumns, []string{
			e.ServiceDate.Format(dateLayout),
			e.ServiceType,
			e.Description,
			provider,
			formatMileage(e.Mileage),
			formatMoney(decimal.NewFromFloat(e.Cost)),
			verified,
		}, i%2 == 1)

		if note := entryNote(e); note != "" {
			p.f.SetFont(fontFamily, "I", 7)
			p.f.CellFormat(tableWidth, noteHeight, p.fit(note, tableWidth-2), "LRB", 1, "L", false, 0, "")
			p.f.SetFont(fontFamily, "", 8)
		}
	}

	total := lo.Reduce(doc.History, func(acc decimal.Decimal, e models.ServiceHistoryEntry, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(e.Cost))
	}, decimal.Zero)
	p.f.Ln(2)
	p.f.SetFont(fontFamily, "B", 10)
	p.f.CellFormat(0, 7, p.tr("Total spent: "+formatMoney(total)), "", 1, "R", false, 0, "")
}

func entryNote(e models.ServiceHistoryEntry) string {
	var parts []string
	if e.ServicedByName != nil {
		parts = append(parts, "Serviced by "+*e.ServicedByName)
	}
	if e.ServiceCenterName != nil && e.ExternalServiceCenterName != nil {
		parts = append(parts, "External: "+*e.ExternalServiceCenterName)
	}
	if e.ReceiptDocumentPath != nil {
		parts = append(parts, "Receipt on file")
	}
	if len(parts) == 0 {
		return ""
	}
	note := parts[0]
	for _, part := range parts[1:] {
		note += " | " + part
	}
	return note
}

type typeTotal struct {
	serviceType string
	count       int
	cost        decimal.Decimal
}

var summaryColumns = []column{
	{"Service type", 90, "L"},
	{"Count", 30, "R"},
	{"Cost", 60, "R"},
}

func writeSummary(p *page, doc *Document) {
	history := doc.History
	p.sectionTitle("Overview")

	total := decimal.Zero
	verified := 0
	for _, e := range history {
		total = total.Add(decimal.NewFromFloat(e.Cost))
		if e.IsVerified {
			verified++
		}
	}
	p.field("Total services", strconv.Itoa(len(history)))
	p.field("Verified services", strconv.Itoa(verified))
	p.field("Total spent", formatMoney(total))

	if len(history) == 0 {
		p.f.Ln(2)
		p.f.SetFont(fontFamily, "I", 10)
		p.f.CellFormat(0, 8, p.tr("No service records on file."), "", 1, "L", false, 0, "")
		return
	}

	// History is newest first.
	latest, earliest := history[0], history[len(history)-1]
	maxMileage := lo.MaxBy(history, func(a, b models.ServiceHistoryEntry) bool { return a.Mileage > b.Mileage })
	p.field("First service", earliest.ServiceDate.Format(dateLayout))
	p.field("Last service", latest.ServiceDate.Format(dateLayout)+" ("+latest.ServiceType+")")
	p.field("Highest mileage", formatMileage(maxMileage.Mileage))
	p.f.Ln(4)

	p.sectionTitle("By service type")
	p.tableHeader(summaryColumns)
	for i, t := range totalsByType(history) {
		p.row(summaryColumns, []string{t.serviceType, strconv.Itoa(t.count), formatMoney(t.cost)}, i%2 == 1)
	}
}

// totalsByType aggregates cost and count per service type, sorted by type.
func totalsByType(history []models.ServiceHistoryEntry) []typeTotal {
	groups := lo.GroupBy(history, func(e models.ServiceHistoryEntry) string { return e.ServiceType })
	types := lo.Keys(groups)
	slices.Sort(types)
	return lo.Map(types, func(t string, _ int) typeTotal {
		entries := groups[t]
		cost := decimal.Zero
		for _, e := range entries {
			cost = cost.Add(decimal.NewFromFloat(e.Cost))
		}
		return typeTotal{serviceType: t, count: len(entries), cost: cost}
	})
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatMileage(km int) string {
	sign := ""
	if km < 0 {
		sign = "-"
		km = -km
	}
	s := strconv.Itoa(km)
	out := []byte(sign)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out) + " km"
}
