// Package xlsx exports calculation history as an Excel workbook.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driven"
)

// SummarySheet is the name of the first sheet, listing every record.
const SummarySheet = "Histórico"

const dateLayout = "02/01/2006 15:04"

// Verify interface compliance.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes records to an .xlsx workbook.
type Exporter struct{}

// New creates an xlsx exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns domain.ExportFormatXLSX.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportFormatXLSX
}

// Export builds the workbook. The summary sheet has one row per record,
// including records of unknown type. Each known type present gets its own
// sheet with the line items of every record of that type and a total row.
func (e *Exporter) Export(records []domain.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeHeader(f, SummarySheet, bold, "ID", "Data", "Cálculo", "Total", "Unidade"); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := writeRow(f, SummarySheet, i+2,
			rec.ID,
			rec.CreatedAt().Format(dateLayout),
			rec.Title(),
			rec.Total,
			rec.Unit(),
		); err != nil {
			return nil, err
		}
	}

	for _, t := range domain.AllCalculatorTypes() {
		group := recordsOfType(records, t)
		if len(group) == 0 {
			continue
		}
		if _, err := f.NewSheet(t.Title()); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", t.Title(), err)
		}
		if err := writeTypeSheet(f, t.Title(), bold, group); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeTypeSheet lists the items of every record in group. Master fields
// are repeated on each row so the sheet can be filtered by record. Inputs
// are written as the formulas read them, so a blank face count shows as 1.
func writeTypeSheet(f *excelize.File, sheet string, bold int, group []domain.Record) error {
	first := domain.Tabulate(group[0].Calculation)
	header := []any{"ID"}
	for _, m := range first.Master {
		header = append(header, m.Label)
	}
	for _, h := range first.Headers {
		header = append(header, h)
	}
	header = append(header, first.SubtotalHeader())
	if err := writeHeader(f, sheet, bold, header...); err != nil {
		return err
	}

	row := 2
	var total float64
	for _, rec := range group {
		table := domain.Tabulate(rec.Calculation)
		total += rec.Total

		for i, cells := range table.Values {
			values := []any{rec.ID}
			for _, m := range table.Master {
				values = append(values, m.Value.Float())
			}
			for _, c := range cells {
				values = append(values, c)
			}
			if i < len(table.Subtotals) {
				values = append(values, table.Subtotals[i])
			}
			if err := writeRow(f, sheet, row, values...); err != nil {
				return err
			}
			row++
		}
	}

	totals := make([]any, len(header))
	totals[0] = "Total"
	totals[len(totals)-1] = total
	if err := writeRow(f, sheet, row, totals...); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, row, row, bold); err != nil {
		return fmt.Errorf("style %s totals: %w", sheet, err)
	}
	return nil
}

func recordsOfType(records []domain.Record, t domain.CalculatorType) []domain.Record {
	var out []domain.Record
	for _, rec := range records {
		if rec.Known() && rec.Type == t {
			out = append(out, rec)
		}
	}
	return out
}

func writeHeader(f *excelize.File, sheet string, style int, values ...any) error {
	if err := writeRow(f, sheet, 1, values...); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return nil
}

// writeRow fills row from column A. Nil values leave their cell empty.
func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell %d,%d: %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
