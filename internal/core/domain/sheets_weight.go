package domain

// SheetMass describes one full master sheet by size and weight.
type SheetMass struct {
	Length NumericString
	Width  NumericString
	Weight NumericString
}

// SheetWeightPiece is a line of identical pieces cut from the sheet.
type SheetWeightPiece struct {
	ID          ItemID
	Quantity    NumericString
	PieceLength NumericString
	PieceWidth  NumericString
}

// ItemID implements LineItem.
func (p SheetWeightPiece) ItemID() ItemID { return p.ID }

// NewSheetWeightPiece returns a blank line with quantity 1.
func NewSheetWeightPiece(id ItemID) SheetWeightPiece {
	return SheetWeightPiece{ID: id, Quantity: "1"}
}

// UnitWeight is the mass of a single piece:
// (pieceLength * weight / length) * (pieceWidth / width).
// A zero master length or width gives 0.
func (p SheetWeightPiece) UnitWeight(m SheetMass) float64 {
	length, width := m.Length.Float(), m.Width.Float()
	if length == 0 || width == 0 {
		return 0
	}
	return finite((p.PieceLength.Float() * m.Weight.Float() / length) * (p.PieceWidth.Float() / width))
}

// Subtotal is quantity * UnitWeight, in Kg.
func (p SheetWeightPiece) Subtotal(m SheetMass) float64 {
	return finite(p.Quantity.Float() * p.UnitWeight(m))
}

// SheetsByWeightCalc computes the mass of pieces cut from a master sheet.
type SheetsByWeightCalc struct {
	Master SheetMass
	Items  *ItemList[SheetWeightPiece]
}

var _ Calculation = (*SheetsByWeightCalc)(nil)

// NewSheetsByWeight creates a calculation with the given pieces.
func NewSheetsByWeight(master SheetMass, pieces ...SheetWeightPiece) *SheetsByWeightCalc {
	return &SheetsByWeightCalc{Master: master, Items: NewItemList(pieces...)}
}

// Type implements Calculation.
func (c *SheetsByWeightCalc) Type() CalculatorType { return SheetsByWeight }

// Len implements Calculation.
func (c *SheetsByWeightCalc) Len() int { return c.Items.Len() }

// Clone implements Calculation.
func (c *SheetsByWeightCalc) Clone() Calculation {
	return &SheetsByWeightCalc{Master: c.Master, Items: c.Items.Clone()}
}

// Subtotals implements Calculation.
func (c *SheetsByWeightCalc) Subtotals() []float64 {
	pieces := c.Items.Items()
	out := make([]float64, len(pieces))
	for i, p := range pieces {
		out[i] = p.Subtotal(c.Master)
	}
	return out
}

// Total is the sum of the subtotals.
func (c *SheetsByWeightCalc) Total() float64 {
	return sum(c.Subtotals())
}
