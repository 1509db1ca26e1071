// Package tui provides an interactive terminal user interface for chapas.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Calculator creates, evaluates and saves worksheets.
	Calculator driving.CalculatorService

	// History reads and clears the saved calculations.
	History driving.HistoryService

	// Settings is optional; without it the settings view only reports an error.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(calculator driving.CalculatorService, history driving.HistoryService) *Ports {
	return &Ports{
		Calculator: calculator,
		History:    history,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Calculator == nil {
		return ErrMissingCalculatorService
	}
	if p.History == nil {
		return ErrMissingHistoryService
	}
	return nil
}
