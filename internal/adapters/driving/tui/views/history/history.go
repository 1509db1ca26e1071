// Package history provides the saved calculations view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
)

// View lists saved calculations, newest first.
type View struct {
	styles  *styles.Styles
	history driving.HistoryService
	list    *list.RecordList

	confirming bool
	err        error

	width  int
	height int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		history: history,
		list:    list.NewRecordList(s),
		width:   80,
		height:  24,
	}
}

// Init loads the history.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.ErrorOccurred{Err: errors.New("history service not available")}
		}
		return messages.HistoryLoaded{Records: v.history.List(context.Background())}
	}
}

func (v *View) clear() tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryCleared{Err: errors.New("history service not available")}
		}
		return messages.HistoryCleared{Err: v.history.Clear(context.Background())}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.list.SetRecords(msg.Records)
		return v, nil

	case messages.HistoryChanged:
		return v, v.load()

	case messages.HistoryCleared:
		v.err = msg.Err
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirming {
		v.confirming = false
		switch msg.String() {
		case "y", "Y", "s", "S":
			return v, v.clear()
		}
		return v, nil
	}

	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "enter":
		rec := v.list.SelectedRecord()
		if rec == nil {
			return v, nil
		}
		selected := *rec
		return v, func() tea.Msg {
			return messages.RecordSelected{Record: selected}
		}
	case "c":
		if !v.list.IsEmpty() {
			v.confirming = true
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// Confirming reports whether a clear is awaiting confirmation.
func (v *View) Confirming() bool {
	return v.confirming
}

// Count returns the number of listed records.
func (v *View) Count() int {
	return v.list.Count()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// View renders the history list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Histórico"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n")

	if v.confirming {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Delete %d saved calculation(s)? [y/N]", v.list.Count())))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
}
