package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

const dateLayout = "02/01/2006 15:04"

// calcOutput is the machine-readable form of an evaluated worksheet.
type calcOutput struct {
	ID       int64             `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string            `json:"type" yaml:"type"`
	Title    string            `json:"title" yaml:"title"`
	Master   map[string]string `json:"master,omitempty" yaml:"master,omitempty"`
	Columns  []string          `json:"columns,omitempty" yaml:"columns,omitempty"`
	Items    []calcOutputItem  `json:"items,omitempty" yaml:"items,omitempty"`
	Total    float64           `json:"total" yaml:"total"`
	Unit     string            `json:"unit,omitempty" yaml:"unit,omitempty"`
	Display  string            `json:"display" yaml:"display"`
	SavedAt  string            `json:"savedAt,omitempty" yaml:"saved_at,omitempty"`
	Rejected bool              `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

type calcOutputItem struct {
	Values   []string `json:"values" yaml:"values,flow"`
	Subtotal float64  `json:"subtotal" yaml:"subtotal"`
}

func newCalcOutput(c domain.Calculation) calcOutput {
	t := domain.Tabulate(c)
	out := calcOutput{
		Type:    t.Type.String(),
		Title:   t.Type.Title(),
		Master:  make(map[string]string, len(t.Master)),
		Columns: t.Headers,
		Total:   t.Total,
		Unit:    t.Type.Unit(),
		Display: t.Type.FormatTotal(t.Total),
	}
	keys := domain.MasterKeys(t.Type)
	for i, f := range t.Master {
		if i < len(keys) {
			out.Master[keys[i]] = f.Value.String()
		}
	}
	for i, row := range t.Rows {
		item := calcOutputItem{}
		for _, v := range row {
			item.Values = append(item.Values, v.String())
		}
		if i < len(t.Subtotals) {
			item.Subtotal = t.Subtotals[i]
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func recordOutput(rec domain.Record) calcOutput {
	out := calcOutput{
		Type:    rec.Type.String(),
		Title:   rec.Title(),
		Total:   rec.Total,
		Unit:    rec.Unit(),
		Display: rec.DisplayTotal(),
	}
	if rec.Known() {
		out = newCalcOutput(rec.Calculation)
		out.Total = rec.Total
		out.Display = rec.DisplayTotal()
	}
	out.ID = rec.ID
	out.SavedAt = rec.CreatedAt().Format(dateLayout)
	return out
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown output format %q (want text, json or yaml)",
			domain.ErrInvalidInput, format)
	}
}

// writeCalculation prints the master parameters, a table of line items and
// the total.
func writeCalculation(w io.Writer, c domain.Calculation) {
	t := domain.Tabulate(c)
	writeTable(w, t)
	fmt.Fprintf(w, "Total: %s\n", t.Type.FormatTotal(t.Total))
}

func writeTable(w io.Writer, t domain.Table) {
	fmt.Fprintln(w, t.Type.Title())
	for _, f := range t.Master {
		fmt.Fprintf(w, "  %s: %s\n", f.Label, f.Value)
	}

	if len(t.Rows) > 0 {
		headers := append([]string{"#"}, t.Headers...)
		headers = append(headers, t.SubtotalHeader())

		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(headers...)
		for i, row := range t.Rows {
			cells := []string{strconv.Itoa(i + 1)}
			for _, v := range row {
				cells = append(cells, v.String())
			}
			var subtotal float64
			if i < len(t.Subtotals) {
				subtotal = t.Subtotals[i]
			}
			cells = append(cells, domain.FormatDecimal(subtotal))
			tbl.Row(cells...)
		}
		fmt.Fprintln(w, tbl.Render())
	} else {
		fmt.Fprintln(w, "  (no items)")
	}
}

// writeRecord prints a saved record with its stored total. Unknown record
// types show only the total.
func writeRecord(w io.Writer, rec domain.Record) {
	fmt.Fprintf(w, "Record %d, saved %s\n\n", rec.ID, rec.CreatedAt().Format(dateLayout))
	if rec.Known() {
		writeTable(w, domain.Tabulate(rec.Calculation))
	} else {
		fmt.Fprintln(w, rec.Title())
		fmt.Fprintf(w, "  type: %s\n", rec.Type)
	}
	fmt.Fprintf(w, "Total: %s\n", rec.DisplayTotal())
}
