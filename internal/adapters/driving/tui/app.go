package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/views/record"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/views/worksheet"
	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	worksheetView *worksheet.View
	historyView   *history.View
	recordView    *record.View
	settingsView  *settings.View
	statusBar     *status.Bar

	// changes delivers history modifications made by other processes.
	// It is nil when the backend cannot be watched.
	changes <-chan struct{}

	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, errors.New("creating app: no ports")
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s),
		worksheetView: worksheet.NewView(s, ports.Calculator),
		historyView:   history.NewView(s, ports.History),
		recordView:    record.NewView(s),
		settingsView:  settings.NewView(s, ports.Settings),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("chapas"),
		a.startWatch(),
	)
}

// startWatch subscribes to history changes. Backends that cannot be
// watched are fine: the list then refreshes only when reopened.
func (a *App) startWatch() tea.Cmd {
	ch, err := a.ports.History.Watch(a.ctx)
	if err != nil {
		logger.Debug("History watch unavailable: %v", err)
		return nil
	}
	a.changes = ch
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.HistoryChanged{}
	}
}

func (a *App) setView(v messages.ViewType) {
	a.currentView = v
	a.statusBar.SetView(v)
	if v == messages.ViewHelp {
		a.statusBar.SetState(status.StateHelp)
	} else if a.statusBar.State() == status.StateHelp {
		a.statusBar.Clear()
	}
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.sizeViews()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.ViewChanged:
		a.setView(msg.View)
		switch msg.View {
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewWorksheet, messages.ViewRecord, messages.ViewHelp:
		}
		return a, nil

	case messages.CalculatorSelected:
		if err := a.worksheetView.Open(msg.Type); err != nil {
			a.err = err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(err.Error())
			return a, nil
		}
		a.statusBar.Clear()
		a.setView(messages.ViewWorksheet)
		return a, a.worksheetView.Init()

	case messages.CalculationSaved:
		a.worksheetView, cmd = a.worksheetView.Update(msg)
		switch {
		case errors.Is(msg.Err, domain.ErrSaveRejected):
			a.statusBar.SetState(status.StateNotice)
			a.statusBar.SetMessage("Not saved: zero result")
		case msg.Err != nil:
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		default:
			a.statusBar.SetState(status.StateSaved)
			a.statusBar.SetMessage(fmt.Sprintf("Saved as %d", msg.Record.ID))
		}
		return a, cmd

	case messages.RecordSelected:
		a.recordView.SetRecord(msg.Record)
		a.setView(messages.ViewRecord)
		return a, nil

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.HistoryChanged:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, tea.Batch(cmd, a.waitForChange())

	case messages.HistoryCleared:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else {
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetMessage("History cleared.")
		}
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		if a.currentView == messages.ViewHistory {
			a.historyView, cmd = a.historyView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// routeKey forwards a key press to the active view.
func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		if msg.String() == "?" {
			a.setView(messages.ViewHelp)
			return nil
		}
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewWorksheet:
		a.worksheetView, cmd = a.worksheetView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewRecord:
		a.recordView, cmd = a.recordView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "?" {
			a.setView(messages.ViewMenu)
		}
	}
	return cmd
}

func (a *App) sizeViews() {
	h := a.height - 1
	a.menuView.SetDimensions(a.width, h)
	a.worksheetView.SetDimensions(a.width, h)
	a.historyView.SetDimensions(a.width, h)
	a.recordView.SetDimensions(a.width, h)
	a.settingsView.SetDimensions(a.width, h)
	a.statusBar.SetWidth(a.width)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var content string
	switch a.currentView {
	case messages.ViewWorksheet:
		content = a.worksheetView.View()
	case messages.ViewHistory:
		content = a.historyView.View()
	case messages.ViewRecord:
		content = a.recordView.View()
	case messages.ViewSettings:
		content = a.settingsView.View()
	case messages.ViewHelp:
		content = a.viewHelp()
	default:
		content = a.menuView.View()
	}

	return content + "\n\n" + a.statusBar.View()
}

// viewHelp renders every keybinding, grouped.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	groups := []string{"Lists", "Worksheet", "History", "General"}
	for i, group := range a.keymap.FullHelp() {
		if i < len(groups) {
			b.WriteString(a.styles.Subtitle.Render(groups[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Decimals accept \",\" or \".\"; empty fields count as 0."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.sizeViews()
}
