// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chapas/internal/core/domain"
)

const dateLayout = "02/01/2006 15:04"

// RecordList displays saved calculations in a navigable list.
type RecordList struct {
	records  []domain.Record
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.records) > 0 {
				r.selected = len(r.records) - 1
			}
		}
	}
	return r, nil
}

// View renders the visible window of records, one line each.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No saved calculations")
	}

	lines := make([]string, 0, len(r.records)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Histórico (%d)", len(r.records))), "")

	visibleCount := r.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.records) {
		end = len(r.records)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, r.records[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *RecordList) renderRecord(index int, rec domain.Record) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := rec.Title()
	titleWidth := r.width - 40
	if titleWidth < 12 {
		titleWidth = 12
	}
	if len([]rune(title)) > titleWidth {
		title = string([]rune(title)[:titleWidth-3]) + "..."
	}

	date := rec.CreatedAt().Format(dateLayout)
	total := rec.DisplayTotal()

	if index == r.selected {
		return r.styles.Selected.Render(fmt.Sprintf("%s%s  %-*s  %s", indicator, date, titleWidth, title, total))
	}
	return r.styles.Muted.Render(indicator+date+"  ") +
		r.styles.Normal.Render(fmt.Sprintf("%-*s  ", titleWidth, title)) +
		r.styles.Total.Render(total)
}

// SetRecords replaces the list, keeping the selection in range.
func (r *RecordList) SetRecords(records []domain.Record) {
	r.records = records
	if r.selected >= len(records) {
		r.selected = len(records) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Records returns the current records.
func (r *RecordList) Records() []domain.Record {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.Record {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
