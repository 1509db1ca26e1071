package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chapas/internal/core/domain"
)

// CalculateInput is the input schema for the calculate tool.
type CalculateInput struct {
	Type   string            `json:"type" jsonschema:"calculator: sheets-kg, bars-kg, sheets-un or paint (or ChapasKg, TubosKg, ChapasUn, TintaL)"`
	Master map[string]string `json:"master,omitempty" jsonschema:"master parameters by name (length, width, weight, coverage); omitted ones keep their defaults"`
	Items  [][]string        `json:"items,omitempty" jsonschema:"line items, each a list of up to 3 numbers written as strings in the calculator's column order"`
	Save   bool              `json:"save,omitempty" jsonschema:"save the result to history when the total is above zero"`
}

// CalculationOutput describes an evaluated worksheet.
type CalculationOutput struct {
	RecordID int64             `json:"record_id,omitempty"`
	SavedAt  string            `json:"saved_at,omitempty"`
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Master   map[string]string `json:"master,omitempty"`
	Columns  []string          `json:"columns,omitempty"`
	Items    []ItemOutput      `json:"items,omitempty"`
	Total    float64           `json:"total"`
	Unit     string            `json:"unit,omitempty"`
	Display  string            `json:"display"`
	Note     string            `json:"note,omitempty"`
}

// ItemOutput is one line item with its subtotal.
type ItemOutput struct {
	Values   []string `json:"values"`
	Subtotal float64  `json:"subtotal"`
}

// ListCalculatorsInput is the input schema for the list_calculators tool.
type ListCalculatorsInput struct{}

// ListCalculatorsOutput lists the calculators.
type ListCalculatorsOutput struct {
	Calculators []CalculatorInfo `json:"calculators"`
}

// CalculatorInfo describes the parameters of one calculator.
type CalculatorInfo struct {
	Type    string   `json:"type"`
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Unit    string   `json:"unit,omitempty"`
	Master  []string `json:"master"`
	Columns []string `json:"columns"`
}

// HistoryListInput is the input schema for the history_list tool.
type HistoryListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of records to return, newest first (default 20)"`
}

// HistoryListOutput is the output schema for the history_list tool.
type HistoryListOutput struct {
	Records []RecordSummary `json:"records"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
}

// RecordSummary is one history entry without its line items.
type RecordSummary struct {
	ID      int64   `json:"id"`
	SavedAt string  `json:"saved_at"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Total   float64 `json:"total"`
	Display string  `json:"display"`
}

// HistoryGetInput is the input schema for the history_get tool.
type HistoryGetInput struct {
	ID int64 `json:"id" jsonschema:"record id as returned by history_list"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_calculators",
		Description: "List the calculators with their master parameters and item columns",
	}, s.handleListCalculators)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "calculate",
		Description: "Evaluate a sheet, bar or paint worksheet and optionally save it to history",
	}, s.handleCalculate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history_list",
		Description: "List saved calculations, newest first",
	}, s.handleHistoryList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history_get",
		Description: "Get one saved calculation with its line items",
	}, s.handleHistoryGet)
}

func (s *Server) handleListCalculators(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListCalculatorsInput,
) (*mcp.CallToolResult, ListCalculatorsOutput, error) {
	var out ListCalculatorsOutput
	for _, t := range domain.AllCalculatorTypes() {
		c, err := s.ports.Calculator.New(t)
		if err != nil {
			return nil, ListCalculatorsOutput{}, err
		}
		out.Calculators = append(out.Calculators, CalculatorInfo{
			Type:    t.String(),
			Slug:    t.Slug(),
			Title:   t.Title(),
			Unit:    t.Unit(),
			Master:  domain.MasterKeys(t),
			Columns: domain.Tabulate(c).Headers,
		})
	}
	return nil, out, nil
}

// handleCalculate builds a worksheet from the input and evaluates it.
// A refused save is reported in the note, not as an error.
func (s *Server) handleCalculate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CalculateInput,
) (*mcp.CallToolResult, CalculationOutput, error) {
	t, ok := domain.ParseCalculatorType(input.Type)
	if !ok {
		return nil, CalculationOutput{}, fmt.Errorf("%w: unknown calculator %q", domain.ErrUnsupportedType, input.Type)
	}

	c, err := s.ports.Calculator.New(t)
	if err != nil {
		return nil, CalculationOutput{}, err
	}
	for key, v := range input.Master {
		if err := domain.SetMaster(c, key, domain.NumericString(v)); err != nil {
			return nil, CalculationOutput{}, err
		}
	}
	for i, values := range input.Items {
		row := make([]domain.NumericString, len(values))
		for j, v := range values {
			row[j] = domain.NumericString(v)
		}
		if err := domain.AppendRow(c, s.ports.Calculator.NextItemID(), row); err != nil {
			return nil, CalculationOutput{}, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	out := calculationOutput(c)
	if input.Save {
		rec, err := s.ports.Calculator.Save(ctx, c)
		switch {
		case errors.Is(err, domain.ErrSaveRejected):
			out.Note = "not saved: " + err.Error()
		case err != nil:
			return nil, CalculationOutput{}, err
		default:
			out.RecordID = rec.ID
			out.SavedAt = rec.CreatedAt().Format(time.RFC3339)
		}
	}
	return nil, out, nil
}

func (s *Server) handleHistoryList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryListInput,
) (*mcp.CallToolResult, HistoryListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	records := s.ports.History.List(ctx)
	out := HistoryListOutput{
		Records: make([]RecordSummary, 0, min(limit, len(records))),
		Total:   len(records),
	}
	for _, rec := range records {
		if len(out.Records) == limit {
			break
		}
		out.Records = append(out.Records, summarize(rec))
	}
	out.Count = len(out.Records)
	return nil, out, nil
}

func (s *Server) handleHistoryGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryGetInput,
) (*mcp.CallToolResult, CalculationOutput, error) {
	rec, err := s.ports.History.Get(ctx, input.ID)
	if err != nil {
		return nil, CalculationOutput{}, err
	}
	return nil, recordOutput(rec), nil
}

func calculationOutput(c domain.Calculation) CalculationOutput {
	t := domain.Tabulate(c)
	out := CalculationOutput{
		Type:    t.Type.String(),
		Title:   t.Type.Title(),
		Master:  make(map[string]string, len(t.Master)),
		Columns: t.Headers,
		Total:   t.Total,
		Unit:    t.Type.Unit(),
		Display: t.Type.FormatTotal(t.Total),
	}
	keys := domain.MasterKeys(t.Type)
	for i, f := range t.Master {
		if i < len(keys) {
			out.Master[keys[i]] = f.Value.String()
		}
	}
	for i, row := range t.Rows {
		item := ItemOutput{Values: make([]string, len(row))}
		for j, v := range row {
			item.Values[j] = v.String()
		}
		if i < len(t.Subtotals) {
			item.Subtotal = t.Subtotals[i]
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// recordOutput reports the stored total, which may differ from a
// recomputation for records written by older versions.
func recordOutput(rec domain.Record) CalculationOutput {
	out := CalculationOutput{
		Type:  rec.Type.String(),
		Title: rec.Title(),
	}
	if rec.Known() {
		out = calculationOutput(rec.Calculation)
	}
	out.RecordID = rec.ID
	out.SavedAt = rec.CreatedAt().Format(time.RFC3339)
	out.Total = rec.Total
	out.Unit = rec.Unit()
	out.Display = rec.DisplayTotal()
	return out
}

func summarize(rec domain.Record) RecordSummary {
	return RecordSummary{
		ID:      rec.ID,
		SavedAt: rec.CreatedAt().Format(time.RFC3339),
		Type:    rec.Type.String(),
		Title:   rec.Title(),
		Total:   rec.Total,
		Display: rec.DisplayTotal(),
	}
}
