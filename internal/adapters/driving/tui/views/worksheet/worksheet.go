// Package worksheet provides the calculator editor view for the TUI.
package worksheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
)

// columns is the number of editable values per line item.
const columns = 3

const cellWidth = 16

// View edits one calculation. Focus walks the master fields first, then
// every cell of every line item. Each keystroke is applied to the
// calculation so the total is always current.
type View struct {
	styles      *styles.Styles
	calculators driving.CalculatorService

	calc   domain.Calculation
	focus  int
	input  *input.NumberInput
	notice string
	err    error

	width  int
	height int
}

// NewView creates a new worksheet view.
func NewView(s *styles.Styles, calculators driving.CalculatorService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:      s,
		calculators: calculators,
		input:       input.NewNumberInput(s),
		width:       80,
		height:      24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Open starts a fresh worksheet of type t with one empty line item.
func (v *View) Open(t domain.CalculatorType) error {
	if v.calculators == nil {
		return errors.New("calculator service not available")
	}
	calc, err := v.calculators.New(t)
	if err != nil {
		return err
	}
	if err := domain.AppendRow(calc, v.calculators.NextItemID(), nil); err != nil {
		return err
	}

	v.calc = calc
	v.notice = ""
	v.err = nil
	v.setFocus(0)
	return nil
}

// Calculation returns the calculation being edited.
func (v *View) Calculation() domain.Calculation {
	return v.calc
}

// Focus returns the index of the focused field.
func (v *View) Focus() int {
	return v.focus
}

// Notice returns the last save outcome shown to the user.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Update handles messages for the worksheet view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CalculationSaved:
		switch {
		case errors.Is(msg.Err, domain.ErrSaveRejected):
			v.err = nil
			v.notice = "Not saved: a calculation with a zero result cannot be saved."
		case msg.Err != nil:
			v.err = msg.Err
			v.notice = ""
		default:
			v.err = nil
			v.notice = fmt.Sprintf("Saved to history as %d.", msg.Record.ID)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.calc == nil {
		if msg.Type == tea.KeyEsc {
			return v, backToMenu
		}
		return v, nil
	}

	switch msg.String() {
	case "esc":
		return v, backToMenu
	case "tab", "down", "enter":
		v.setFocus(v.focus + 1)
		return v, nil
	case "shift+tab", "up":
		v.setFocus(v.focus - 1)
		return v, nil
	case "ctrl+n":
		v.addRow()
		return v, nil
	case "ctrl+d":
		v.removeRow()
		return v, nil
	case "ctrl+s":
		return v, v.save()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.apply(domain.NumericString(v.input.Value()))
	return v, cmd
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

func (v *View) masterCount() int {
	return len(domain.MasterKeys(v.calc.Type()))
}

func (v *View) fieldCount() int {
	return v.masterCount() + v.calc.Len()*columns
}

// setFocus moves focus to field i, clamped, and loads its value into the input.
func (v *View) setFocus(i int) {
	n := v.fieldCount()
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	v.focus = i
	v.input.SetValue(v.value(i).String())
	v.input.Focus()
}

// value returns the raw text of field i.
func (v *View) value(i int) domain.NumericString {
	t := domain.Tabulate(v.calc)
	if i < len(t.Master) {
		return t.Master[i].Value
	}
	i -= len(t.Master)
	row, col := i/columns, i%columns
	if row < len(t.Rows) {
		return t.Rows[row][col]
	}
	return ""
}

// apply writes s into the focused field.
func (v *View) apply(s domain.NumericString) {
	mc := v.masterCount()
	if v.focus < mc {
		v.err = domain.SetMaster(v.calc, domain.MasterKeys(v.calc.Type())[v.focus], s)
		return
	}
	ids := domain.Tabulate(v.calc).IDs
	i := v.focus - mc
	row, col := i/columns, i%columns
	if row < len(ids) {
		v.err = domain.SetCell(v.calc, ids[row], col, s)
	}
}

func (v *View) focusedRow() (int, bool) {
	i := v.focus - v.masterCount()
	if i < 0 {
		return 0, false
	}
	return i / columns, true
}

func (v *View) addRow() {
	if err := domain.AppendRow(v.calc, v.calculators.NextItemID(), nil); err != nil {
		v.err = err
		return
	}
	v.setFocus(v.masterCount() + (v.calc.Len()-1)*columns)
}

func (v *View) removeRow() {
	row, ok := v.focusedRow()
	if !ok {
		return
	}
	ids := domain.Tabulate(v.calc).IDs
	if row >= len(ids) {
		return
	}
	domain.RemoveRow(v.calc, ids[row])
	v.setFocus(v.focus)
}

// save snapshots the worksheet before handing it to the command, which runs
// off the update loop while the user keeps editing.
func (v *View) save() tea.Cmd {
	calc := v.calc.Clone()
	return func() tea.Msg {
		rec, err := v.calculators.Save(context.Background(), calc)
		return messages.CalculationSaved{Record: rec, Err: err}
	}
}

// View renders the worksheet.
func (v *View) View() string {
	if v.calc == nil {
		return v.styles.Muted.Render("No calculator selected")
	}

	t := domain.Tabulate(v.calc)
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(t.Type.Title()))
	b.WriteString("\n\n")

	for i, f := range t.Master {
		b.WriteString(fmt.Sprintf("%-20s ", f.Label))
		b.WriteString(v.cell(i, f.Value))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	header := "   "
	for _, h := range t.Headers {
		header += fmt.Sprintf("%-*s", cellWidth, h)
	}
	header += t.SubtotalHeader()
	b.WriteString(v.styles.TableHeader.Render(header))
	b.WriteString("\n")

	if len(t.Rows) == 0 {
		b.WriteString(v.styles.Muted.Render("   (no items, ctrl+n adds one)"))
		b.WriteString("\n")
	}
	for r, row := range t.Rows {
		b.WriteString(fmt.Sprintf("%-3d", r+1))
		for c, val := range row {
			b.WriteString(v.cell(len(t.Master)+r*columns+c, val))
		}
		if r < len(t.Subtotals) {
			b.WriteString(v.styles.Cell.Render(domain.FormatDecimal(t.Subtotals[r])))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Total.Render("Total: " + t.Type.FormatTotal(t.Total)))
	b.WriteString("\n")

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) cell(i int, val domain.NumericString) string {
	if i == v.focus {
		return v.input.View() + strings.Repeat(" ", 2)
	}
	s := val.String()
	if s == "" {
		s = "·"
	}
	return v.styles.Cell.Render(fmt.Sprintf("%-*s", cellWidth, s))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
