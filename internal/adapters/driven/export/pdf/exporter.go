// Package pdf exports calculation history as a printable report.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driven"
)

// ReportTitle heads the first page.
const ReportTitle = "Histórico de Cálculos"

const (
	dateLayout  = "02/01/2006 15:04"
	pageWidth   = 190.0
	lineHeight  = 6.0
	titleHeight = 10.0
)

// Verify interface compliance.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter renders records as an A4 PDF.
type Exporter struct{}

// New creates a pdf exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns domain.ExportFormatPDF.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportFormatPDF
}

// Export renders one block per record: a heading with the date and title,
// the master parameters, a table of line items with subtotals and the total.
// Records of unknown type get only the heading and total.
func (e *Exporter) Export(records []domain.Record) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Arial", "B", 16)
	doc.Cell(40, titleHeight, tr(ReportTitle))
	doc.Ln(titleHeight + 2)

	if len(records) == 0 {
		doc.SetFont("Arial", "", 12)
		doc.Cell(40, lineHeight, tr("Nenhum cálculo salvo."))
	}

	for _, rec := range records {
		writeRecord(doc, tr, rec)
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRecord(doc *gofpdf.Fpdf, tr func(string) string, rec domain.Record) {
	doc.SetFont("Arial", "B", 12)
	heading := fmt.Sprintf("%s  %s", rec.CreatedAt().Format(dateLayout), rec.Title())
	doc.CellFormat(pageWidth, lineHeight+1, tr(heading), "B", 1, "L", false, 0, "")
	doc.Ln(1)

	if rec.Known() {
		table := domain.Tabulate(rec.Calculation)

		doc.SetFont("Arial", "", 10)
		for _, m := range table.Master {
			doc.Cell(60, lineHeight, tr(m.Label+": "+m.Value.String()))
			doc.Ln(-1)
		}

		if len(table.Rows) > 0 {
			writeItems(doc, tr, table)
		}
	}

	doc.SetFont("Arial", "B", 11)
	doc.Cell(40, lineHeight, tr("Total: "+rec.DisplayTotal()))
	doc.Ln(lineHeight * 2)
}

func writeItems(doc *gofpdf.Fpdf, tr func(string) string, table domain.Table) {
	headers := append(append([]string{}, table.Headers...), table.SubtotalHeader())
	width := pageWidth / float64(len(headers))

	doc.SetFont("Arial", "B", 9)
	for _, h := range headers {
		doc.CellFormat(width, lineHeight, tr(h), "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 9)
	for i, cells := range table.Rows {
		for _, c := range cells {
			doc.CellFormat(width, lineHeight, tr(c.String()), "1", 0, "R", false, 0, "")
		}
		var subtotal float64
		if i < len(table.Subtotals) {
			subtotal = table.Subtotals[i]
		}
		doc.CellFormat(width, lineHeight, domain.FormatDecimal(subtotal), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
	doc.Ln(2)
}
