// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
	"github.com/custodia-labs/chapas/internal/core/services"
)

var errNoService = errors.New("settings service not available")

// View lists every setting and edits one at a time. Storage changes apply
// on the next start.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	saved    string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           ti,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: errNoService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) keys() []string {
	if v.settingsService == nil {
		return nil
	}
	return v.settingsService.Keys()
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.settings, v.err = msg.Settings, msg.Err
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	keys := v.keys()

	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(keys)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(keys) {
			key := keys[v.selected]
			v.editing = true
			v.saved = ""
			v.input.EchoMode = textinput.EchoNormal
			if key == services.KeyStorageDSN {
				v.input.EchoMode = textinput.EchoPassword
			}
			v.input.SetValue(v.value(key))
			v.input.CursorEnd()
			return v, v.input.Focus()
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.input.Blur()
		return v, nil
	case "enter":
		v.editing = false
		v.input.Blur()
		return v, v.setValue(v.keys()[v.selected], strings.TrimSpace(v.input.Value()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) setValue(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: errNoService}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.SetValue(key, value)}
	}
}

// value returns the current raw value of key.
func (v *View) value(key string) string {
	if v.settings == nil {
		return ""
	}
	s := v.settings
	switch key {
	case services.KeyStorageBackend:
		return s.Storage.Backend.String()
	case services.KeyStoragePath:
		return s.Storage.Path
	case services.KeyStorageDSN:
		return s.Storage.DSN
	case services.KeyHistoryKey:
		return s.Storage.HistoryKey
	case services.KeyBarLength:
		return s.Defaults.BarLength.String()
	case services.KeySheetUnitLength:
		return s.Defaults.SheetUnitLength.String()
	case services.KeySheetUnitWidth:
		return s.Defaults.SheetUnitWidth.String()
	case services.KeyPaintCoverage:
		return s.Defaults.PaintCoverage.String()
	}
	return ""
}

func (v *View) display(key string) string {
	val := v.value(key)
	switch {
	case val == "" && key == services.KeyStoragePath:
		return "(default)"
	case val == "":
		return "(not set)"
	case key == services.KeyStorageDSN:
		return strings.Repeat("*", 8)
	}
	return val
}

// View renders the settings.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		return b.String()
	}

	for i, key := range v.keys() {
		cursor := "  "
		line := fmt.Sprintf("%-30s ", key)
		switch {
		case i == v.selected && v.editing:
			b.WriteString("> " + line + v.input.View())
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line + v.display(key)))
		default:
			b.WriteString(cursor + v.styles.Normal.Render(line) + v.styles.Muted.Render(v.display(key)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.settings != nil {
		b.WriteString(v.styles.Muted.Render("Backend: " + v.settings.Storage.Backend.Description()))
		b.WriteString("\n")
	}
	if v.saved != "" {
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Saved %s. Storage changes apply on next start.", v.saved)))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Muted.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Muted.Render("[j/k] navigate  [enter] edit  [esc] back"))
	}

	return b.String()
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to the list, dropping any edit in progress.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.saved = ""
	v.err = nil
	v.input.Blur()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
