package mcp

import (
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Calculator evaluates and saves worksheets.
	Calculator driving.CalculatorService

	// History reads the saved calculations.
	History driving.HistoryService
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
