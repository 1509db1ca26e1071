// Package mcp exposes the calculators and the saved history to MCP clients.
//
// Tools:
//   - list_calculators: calculator types with their master fields and columns
//   - calculate: evaluate a worksheet, optionally saving it to history
//   - history_list: saved calculations, newest first
//   - history_get: one saved calculation with its line items
//
// Resources:
//   - chapas://history: the whole history as JSON
//   - chapas://history/{id}: one record as JSON
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chapas/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// instructions is sent to clients on initialize.
const instructions = `Chapas computes material quantities for metal fabrication.
Call list_calculators first to learn each calculator's master fields and item columns.
calculate takes numbers as strings; a comma is read as the decimal separator and
anything unreadable counts as 0. Saving is refused when the total is not above zero.
Use history_list and history_get to read saved calculations.`

// Server serves the calculator and history tools over stdio or HTTP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a server backed by ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "chapas", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled. A clean shutdown returns nil.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Debug("MCP server on http %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
