// Package record provides the saved calculation detail view for the TUI.
package record

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chapas/internal/core/domain"
)

const dateLayout = "02/01/2006 15:04"

// View shows one saved calculation read-only.
type View struct {
	styles *styles.Styles
	record *domain.Record
	width  int
	height int
}

// NewView creates a new record view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetRecord sets the record to display.
func (v *View) SetRecord(r domain.Record) {
	v.record = &r
}

// Record returns the displayed record, or nil.
func (v *View) Record() *domain.Record {
	return v.record
}

// Update handles messages for the record view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "backspace" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewHistory}
			}
		}
	}
	return v, nil
}

// View renders the record. The total shown is the stored one.
func (v *View) View() string {
	if v.record == nil {
		return v.styles.Muted.Render("No record selected")
	}
	r := v.record

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(r.Title()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Record %d, saved %s", r.ID, r.CreatedAt().Format(dateLayout))))
	b.WriteString("\n\n")

	if r.Known() {
		t := domain.Tabulate(r.Calculation)
		for _, f := range t.Master {
			b.WriteString(fmt.Sprintf("%-20s %s\n", f.Label, f.Value))
		}
		b.WriteString("\n")
		b.WriteString(renderItems(t))
		b.WriteString("\n")
	} else {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Unknown calculation type %q, details unavailable.", r.Type)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Total.Render("Total: " + r.DisplayTotal()))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[esc] back"))

	return b.String()
}

func renderItems(t domain.Table) string {
	if len(t.Rows) == 0 {
		return "  (no items)"
	}
	headers := append([]string{"#"}, t.Headers...)
	headers = append(headers, t.SubtotalHeader())

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for i, row := range t.Rows {
		cells := []string{fmt.Sprintf("%d", i+1)}
		for _, c := range row {
			cells = append(cells, c.String())
		}
		if i < len(t.Subtotals) {
			cells = append(cells, domain.FormatDecimal(t.Subtotals[i]))
		}
		tbl.Row(cells...)
	}
	return tbl.Render()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
