package domain

import (
	"strings"
)

const unknownTitle = "Cálculo"

// CalculatorType tags a calculation variant. The values are the tags used
// in the persisted history log.
type CalculatorType string

// Available calculator types.
const (
	// SheetsByWeight computes the mass of pieces cut from a master sheet.
	SheetsByWeight CalculatorType = "ChapasKg"

	// BarsByWeight computes the mass of pieces cut from a master bar or tube.
	BarsByWeight CalculatorType = "TubosKg"

	// SheetsByUnit computes the fraction of master sheets consumed.
	SheetsByUnit CalculatorType = "ChapasUn"

	// PaintByArea computes the paint volume for a set of areas.
	PaintByArea CalculatorType = "TintaL"
)

// AllCalculatorTypes returns the known types in menu order.
func AllCalculatorTypes() []CalculatorType {
	return []CalculatorType{SheetsByWeight, BarsByWeight, SheetsByUnit, PaintByArea}
}

// IsValid returns true if the calculator type is recognised.
func (t CalculatorType) IsValid() bool {
	switch t {
	case SheetsByWeight, BarsByWeight, SheetsByUnit, PaintByArea:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t CalculatorType) String() string {
	return string(t)
}

// Title returns the display title used in the history list.
func (t CalculatorType) Title() string {
	switch t {
	case SheetsByWeight:
		return "Chapas por Peso"
	case BarsByWeight:
		return "Tubos por Peso"
	case SheetsByUnit:
		return "Unidade de Chapas"
	case PaintByArea:
		return "Tinta por Área"
	default:
		return unknownTitle
	}
}

// Unit returns the unit of the total. SheetsByUnit totals are dimensionless.
func (t CalculatorType) Unit() string {
	switch t {
	case SheetsByWeight, BarsByWeight:
		return "Kg"
	case PaintByArea:
		return "L"
	default:
		return ""
	}
}

// FormatTotal formats v with the type's unit, e.g. "6,2500 Kg".
func (t CalculatorType) FormatTotal(v float64) string {
	s := FormatDecimal(v)
	if u := t.Unit(); u != "" {
		return s + " " + u
	}
	return s
}

// Slug returns the command-line name of the type.
func (t CalculatorType) Slug() string {
	switch t {
	case SheetsByWeight:
		return "sheets-kg"
	case BarsByWeight:
		return "bars-kg"
	case SheetsByUnit:
		return "sheets-un"
	case PaintByArea:
		return "paint"
	default:
		return strings.ToLower(string(t))
	}
}

// ParseCalculatorType accepts either the persisted tag ("ChapasKg") or the
// command-line slug ("sheets-kg"), case-insensitively.
func ParseCalculatorType(s string) (CalculatorType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range AllCalculatorTypes() {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Slug()) {
			return t, true
		}
	}
	return "", false
}

// Calculation is one worksheet of any variant: master parameters plus line
// items. Implementations are pure; evaluating never mutates the inputs.
type Calculation interface {
	// Type returns the variant tag.
	Type() CalculatorType

	// Subtotals returns the per-line contribution, in item order.
	Subtotals() []float64

	// Total returns the authoritative grand total.
	Total() float64

	// Len returns the number of line items.
	Len() int

	// Clone returns a deep copy that shares no state with the receiver.
	Clone() Calculation
}

// Result is an evaluated calculation.
type Result struct {
	Type      CalculatorType
	Subtotals []float64
	Total     float64
}

// Evaluate computes subtotals and total for c.
func Evaluate(c Calculation) Result {
	return Result{
		Type:      c.Type(),
		Subtotals: c.Subtotals(),
		Total:     c.Total(),
	}
}

// Savable reports whether the calculation may be written to history.
// Totals of zero or below are refused.
func Savable(c Calculation) bool {
	return c.Total() > 0
}

// sum adds the values in order.
func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return finite(total)
}
