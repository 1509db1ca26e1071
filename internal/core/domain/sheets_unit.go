package domain

// Default master sheet size for unit counting, in mm.
const (
	DefaultSheetUnitLength = "2000"
	DefaultSheetUnitWidth  = "4000"
)

// SheetArea describes one full master sheet by size.
type SheetArea struct {
	Length NumericString
	Width  NumericString
}

// DefaultSheetArea returns the standard 2000 x 4000 sheet.
func DefaultSheetArea() SheetArea {
	return SheetArea{Length: DefaultSheetUnitLength, Width: DefaultSheetUnitWidth}
}

// Area is length * width.
func (m SheetArea) Area() float64 {
	return finite(m.Length.Float() * m.Width.Float())
}

// SheetUnitPiece is a line of identical pieces.
type SheetUnitPiece struct {
	ID          ItemID
	PieceLength NumericString
	PieceWidth  NumericString
	Quantity    NumericString
}

// ItemID implements LineItem.
func (p SheetUnitPiece) ItemID() ItemID { return p.ID }

// NewSheetUnitPiece returns a blank line with quantity 1.
func NewSheetUnitPiece(id ItemID) SheetUnitPiece {
	return SheetUnitPiece{ID: id, Quantity: "1"}
}

// Subtotal is the fraction of a master sheet the line consumes:
// quantity * pieceArea / sheetArea. A zero sheet area gives 0.
func (p SheetUnitPiece) Subtotal(m SheetArea) float64 {
	pieceArea := p.PieceLength.Float() * p.PieceWidth.Float()
	return finite(p.Quantity.Float() * ratio(pieceArea, m.Area()))
}

// SheetsByUnitCalc computes how many master sheets the pieces consume.
type SheetsByUnitCalc struct {
	Master SheetArea
	Items  *ItemList[SheetUnitPiece]
}

var _ Calculation = (*SheetsByUnitCalc)(nil)

// NewSheetsByUnit creates a calculation with the given pieces.
func NewSheetsByUnit(master SheetArea, pieces ...SheetUnitPiece) *SheetsByUnitCalc {
	return &SheetsByUnitCalc{Master: master, Items: NewItemList(pieces...)}
}

// Type implements Calculation.
func (c *SheetsByUnitCalc) Type() CalculatorType { return SheetsByUnit }

// Len implements Calculation.
func (c *SheetsByUnitCalc) Len() int { return c.Items.Len() }

// Clone implements Calculation.
func (c *SheetsByUnitCalc) Clone() Calculation {
	return &SheetsByUnitCalc{Master: c.Master, Items: c.Items.Clone()}
}

// Subtotals implements Calculation.
func (c *SheetsByUnitCalc) Subtotals() []float64 {
	pieces := c.Items.Items()
	out := make([]float64, len(pieces))
	for i, p := range pieces {
		out[i] = p.Subtotal(c.Master)
	}
	return out
}

// Total is the fractional sheet count.
func (c *SheetsByUnitCalc) Total() float64 {
	return sum(c.Subtotals())
}
