package domain

// Field is a labelled master parameter.
type Field struct {
	Label string
	Value NumericString
}

// Table is a display view of a calculation: the master parameters, one row
// of raw inputs per line item and the matching subtotals.
type Table struct {
	Type      CalculatorType
	Master    []Field
	Headers   []string
	IDs       []ItemID
	Rows      [][]NumericString
	Values    [][]float64 // Rows as the formulas read them
	Subtotals []float64
	Total     float64
}

// Tabulate lays out c for display. Unknown implementations yield a table
// with no master fields or rows.
func Tabulate(c Calculation) Table {
	t := Table{
		Type:      c.Type(),
		Subtotals: c.Subtotals(),
		Total:     c.Total(),
	}

	switch v := c.(type) {
	case *SheetsByWeightCalc:
		t.Master = []Field{
			{"Comprimento (mm)", v.Master.Length},
			{"Largura (mm)", v.Master.Width},
			{"Peso (Kg)", v.Master.Weight},
		}
		t.Headers = []string{"Qtd", "Comp. Peça (mm)", "Larg. Peça (mm)"}
		for _, p := range v.Items.Items() {
			t.IDs = append(t.IDs, p.ID)
			t.Rows = append(t.Rows, []NumericString{p.Quantity, p.PieceLength, p.PieceWidth})
			t.Values = append(t.Values, []float64{p.Quantity.Float(), p.PieceLength.Float(), p.PieceWidth.Float()})
		}
	case *BarsByWeightCalc:
		t.Master = []Field{
			{"Comprimento (mm)", v.Master.Length},
			{"Peso (Kg)", v.Master.Weight},
		}
		t.Headers = []string{"Qtd Montagem", "Qtd Peça", "Comp. Peça (mm)"}
		for _, p := range v.Items.Items() {
			t.IDs = append(t.IDs, p.ID)
			t.Rows = append(t.Rows, []NumericString{p.AssemblyQty, p.PieceQty, p.PieceLength})
			t.Values = append(t.Values, []float64{p.AssemblyQty.Float(), p.PieceQty.Float(), p.PieceLength.Float()})
		}
	case *SheetsByUnitCalc:
		t.Master = []Field{
			{"Comprimento (mm)", v.Master.Length},
			{"Largura (mm)", v.Master.Width},
		}
		t.Headers = []string{"Comp. Peça (mm)", "Larg. Peça (mm)", "Quantidade"}
		for _, p := range v.Items.Items() {
			t.IDs = append(t.IDs, p.ID)
			t.Rows = append(t.Rows, []NumericString{p.PieceLength, p.PieceWidth, p.Quantity})
			t.Values = append(t.Values, []float64{p.PieceLength.Float(), p.PieceWidth.Float(), p.Quantity.Float()})
		}
	case *PaintByAreaCalc:
		t.Master = []Field{
			{"Tinta por m² (L)", v.Master.PerSquareMeter},
		}
		t.Headers = []string{"Comprimento (mm)", "Largura (mm)", "Faces"}
		for _, a := range v.Items.Items() {
			t.IDs = append(t.IDs, a.ID)
			t.Rows = append(t.Rows, []NumericString{a.Length, a.Width, a.FaceCount})
			t.Values = append(t.Values, []float64{a.Length.Float(), a.Width.Float(), a.Faces()})
		}
	}

	return t
}

// SubtotalHeader labels the subtotal column, e.g. "Subtotal (Kg)".
func (t Table) SubtotalHeader() string {
	if u := t.Type.Unit(); u != "" {
		return "Subtotal (" + u + ")"
	}
	return "Subtotal"
}
