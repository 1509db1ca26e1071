package mcp

import "errors"

var (
	// ErrMissingCalculatorService is returned when the calculator service is not provided.
	ErrMissingCalculatorService = errors.New("mcp: calculator service is required")

	// ErrMissingHistoryService is returned when the history service is not provided.
	ErrMissingHistoryService = errors.New("mcp: history service is required")
)
