// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
)

// NumberInput wraps a bubbles textinput that only accepts the characters
// of a decimal number. Both "." and "," are accepted as separator.
type NumberInput struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewNumberInput creates a new number input component.
func NewNumberInput(s *styles.Styles) *NumberInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "0"
	ti.CharLimit = 24
	ti.Width = 12
	ti.Focus()

	return &NumberInput{
		textinput: ti,
		styles:    s,
	}
}

// Init initialises the number input.
func (n *NumberInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Runes that cannot be part of a number
// are dropped.
func (n *NumberInput) Update(msg tea.Msg) (*NumberInput, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyRunes {
		for _, r := range km.Runes {
			if !numeric(r) {
				return n, nil
			}
		}
	}

	var cmd tea.Cmd
	n.textinput, cmd = n.textinput.Update(msg)
	return n, cmd
}

func numeric(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-'
}

// View renders the input.
func (n *NumberInput) View() string {
	return n.styles.InputField.Render(n.textinput.View())
}

// Value returns the current input value.
func (n *NumberInput) Value() string {
	return n.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (n *NumberInput) SetValue(value string) {
	n.textinput.SetValue(value)
	n.textinput.CursorEnd()
}

// Focus sets focus on the input.
func (n *NumberInput) Focus() tea.Cmd {
	return n.textinput.Focus()
}

// Blur removes focus from the input.
func (n *NumberInput) Blur() {
	n.textinput.Blur()
}

// Focused returns whether the input is focused.
func (n *NumberInput) Focused() bool {
	return n.textinput.Focused()
}

// Reset clears the input.
func (n *NumberInput) Reset() {
	n.textinput.Reset()
}
