package domain

// DefaultPaintCoverage is the default consumption in liters per m².
const DefaultPaintCoverage = "0.083"

// mmPerMeter converts the line dimensions to meters.
const mmPerMeter = 1000

// PaintCoverage is the paint consumption rate.
type PaintCoverage struct {
	PerSquareMeter NumericString
}

// DefaultPaintCoverageRate returns the default coverage.
func DefaultPaintCoverageRate() PaintCoverage {
	return PaintCoverage{PerSquareMeter: DefaultPaintCoverage}
}

// PaintArea is a rectangle to be painted, dimensions in mm.
type PaintArea struct {
	ID        ItemID
	Length    NumericString
	Width     NumericString
	FaceCount NumericString
}

// ItemID implements LineItem.
func (a PaintArea) ItemID() ItemID { return a.ID }

// NewPaintArea returns a blank single-face area.
func NewPaintArea(id ItemID) PaintArea {
	return PaintArea{ID: id, FaceCount: "1"}
}

// Faces returns the face count. Unlike every other field, an empty, zero or
// unparseable face count means 1.
func (a PaintArea) Faces() float64 {
	if n := a.FaceCount.Float(); n != 0 {
		return n
	}
	return 1
}

// SquareMeters converts the rectangle to m².
func (a PaintArea) SquareMeters() float64 {
	return finite((a.Length.Float() / mmPerMeter) * (a.Width.Float() / mmPerMeter))
}

// Subtotal is area * faces * coverage, in liters.
func (a PaintArea) Subtotal(m PaintCoverage) float64 {
	return finite(a.SquareMeters() * a.Faces() * m.PerSquareMeter.Float())
}

// PaintByAreaCalc computes the paint volume for a set of areas.
type PaintByAreaCalc struct {
	Master PaintCoverage
	Items  *ItemList[PaintArea]
}

var _ Calculation = (*PaintByAreaCalc)(nil)

// NewPaintByArea creates a calculation with the given areas.
func NewPaintByArea(master PaintCoverage, areas ...PaintArea) *PaintByAreaCalc {
	return &PaintByAreaCalc{Master: master, Items: NewItemList(areas...)}
}

// Type implements Calculation.
func (c *PaintByAreaCalc) Type() CalculatorType { return PaintByArea }

// Len implements Calculation.
func (c *PaintByAreaCalc) Len() int { return c.Items.Len() }

// Clone implements Calculation.
func (c *PaintByAreaCalc) Clone() Calculation {
	return &PaintByAreaCalc{Master: c.Master, Items: c.Items.Clone()}
}

// Subtotals implements Calculation.
func (c *PaintByAreaCalc) Subtotals() []float64 {
	areas := c.Items.Items()
	out := make([]float64, len(areas))
	for i, a := range areas {
		out[i] = a.Subtotal(c.Master)
	}
	return out
}

// Total is the paint volume in liters.
func (c *PaintByAreaCalc) Total() float64 {
	return sum(c.Subtotals())
}
