package domain

// DefaultBarLength is the length of a standard commercial bar, in mm.
const DefaultBarLength = "6000"

// BarMass describes one full master bar or tube.
type BarMass struct {
	Length NumericString
	Weight NumericString
}

// DefaultBarMass returns a master bar of the standard length and no weight.
func DefaultBarMass() BarMass {
	return BarMass{Length: DefaultBarLength}
}

// BarPiece is a line of pieces, pieceQty per assembly, assemblyQty assemblies.
type BarPiece struct {
	ID          ItemID
	AssemblyQty NumericString
	PieceQty    NumericString
	PieceLength NumericString
}

// ItemID implements LineItem.
func (p BarPiece) ItemID() ItemID { return p.ID }

// NewBarPiece returns a blank line with one piece per one assembly.
func NewBarPiece(id ItemID) BarPiece {
	return BarPiece{ID: id, AssemblyQty: "1", PieceQty: "1"}
}

// RawLength is assemblyQty * pieceQty * pieceLength.
func (p BarPiece) RawLength() float64 {
	return finite(p.AssemblyQty.Float() * p.PieceQty.Float() * p.PieceLength.Float())
}

// Subtotal is the line's share of the mass, RawLength / length * weight.
// It is for display only; the total divides the summed length once.
func (p BarPiece) Subtotal(m BarMass) float64 {
	return finite(ratio(p.RawLength(), m.Length.Float()) * m.Weight.Float())
}

// BarsByWeightCalc computes the mass of pieces cut from a master bar.
type BarsByWeightCalc struct {
	Master BarMass
	Items  *ItemList[BarPiece]
}

var _ Calculation = (*BarsByWeightCalc)(nil)

// NewBarsByWeight creates a calculation with the given pieces.
func NewBarsByWeight(master BarMass, pieces ...BarPiece) *BarsByWeightCalc {
	return &BarsByWeightCalc{Master: master, Items: NewItemList(pieces...)}
}

// Type implements Calculation.
func (c *BarsByWeightCalc) Type() CalculatorType { return BarsByWeight }

// Len implements Calculation.
func (c *BarsByWeightCalc) Len() int { return c.Items.Len() }

// Clone implements Calculation.
func (c *BarsByWeightCalc) Clone() Calculation {
	return &BarsByWeightCalc{Master: c.Master, Items: c.Items.Clone()}
}

// Subtotals implements Calculation.
func (c *BarsByWeightCalc) Subtotals() []float64 {
	pieces := c.Items.Items()
	out := make([]float64, len(pieces))
	for i, p := range pieces {
		out[i] = p.Subtotal(c.Master)
	}
	return out
}

// RawLength is the summed raw length of every line.
func (c *BarsByWeightCalc) RawLength() float64 {
	var total float64
	for _, p := range c.Items.Items() {
		total += p.RawLength()
	}
	return finite(total)
}

// Total divides the aggregated raw length by the bar length once:
// sum(rawLength) / length * weight. A zero bar length gives 0.
func (c *BarsByWeightCalc) Total() float64 {
	length := c.Master.Length.Float()
	if length == 0 {
		return 0
	}
	return finite(c.RawLength() / length * c.Master.Weight.Float())
}
