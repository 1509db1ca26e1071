// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/chapas/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewWorksheet is the calculator editor.
	ViewWorksheet
	// ViewHistory lists saved calculations.
	ViewHistory
	// ViewRecord shows one saved calculation.
	ViewRecord
	// ViewSettings edits the stored settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewWorksheet:
		return "worksheet"
	case ViewHistory:
		return "history"
	case ViewRecord:
		return "record"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// CalculatorSelected opens a fresh worksheet of the given type.
type CalculatorSelected struct {
	Type domain.CalculatorType
}

// CalculationSaved reports the outcome of a save. Err is
// domain.ErrSaveRejected when the total was not above zero.
type CalculationSaved struct {
	Record domain.Record
	Err    error
}

// HistoryLoaded carries the saved calculations, newest first.
type HistoryLoaded struct {
	Records []domain.Record
}

// HistoryChanged signals the history was modified by another process.
type HistoryChanged struct{}

// HistoryCleared signals the history was cleared.
type HistoryCleared struct {
	Err error
}

// RecordSelected opens the detail view of a saved calculation.
type RecordSelected struct {
	Record domain.Record
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved reports the outcome of a settings change.
type SettingsSaved struct {
	Key string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
