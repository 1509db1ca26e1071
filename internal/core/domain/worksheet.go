package domain

import (
	"fmt"
	"strings"
)

// Master parameter names accepted by SetMaster.
const (
	MasterLength   = "length"
	MasterWidth    = "width"
	MasterWeight   = "weight"
	MasterCoverage = "coverage"
)

// MasterKeys returns the master parameter names of t, in Tabulate order.
func MasterKeys(t CalculatorType) []string {
	switch t {
	case SheetsByWeight:
		return []string{MasterLength, MasterWidth, MasterWeight}
	case BarsByWeight:
		return []string{MasterLength, MasterWeight}
	case SheetsByUnit:
		return []string{MasterLength, MasterWidth}
	case PaintByArea:
		return []string{MasterCoverage}
	default:
		return nil
	}
}

// SetMaster sets one master parameter of c by name.
func SetMaster(c Calculation, key string, v NumericString) error {
	key = strings.ToLower(strings.TrimSpace(key))

	switch calc := c.(type) {
	case *SheetsByWeightCalc:
		switch key {
		case MasterLength:
			calc.Master.Length = v
		case MasterWidth:
			calc.Master.Width = v
		case MasterWeight:
			calc.Master.Weight = v
		default:
			return unknownMaster(c, key)
		}
	case *BarsByWeightCalc:
		switch key {
		case MasterLength:
			calc.Master.Length = v
		case MasterWeight:
			calc.Master.Weight = v
		default:
			return unknownMaster(c, key)
		}
	case *SheetsByUnitCalc:
		switch key {
		case MasterLength:
			calc.Master.Length = v
		case MasterWidth:
			calc.Master.Width = v
		default:
			return unknownMaster(c, key)
		}
	case *PaintByAreaCalc:
		if key != MasterCoverage {
			return unknownMaster(c, key)
		}
		calc.Master.PerSquareMeter = v
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, c)
	}
	return nil
}

func unknownMaster(c Calculation, key string) error {
	return fmt.Errorf("%w: %s has no master field %q (want one of %s)",
		ErrInvalidInput, c.Type(), key, strings.Join(MasterKeys(c.Type()), ", "))
}

// AppendRow adds a line item to c from raw values given in the column order
// of Tabulate. Fewer values than columns leave the line defaults in place.
func AppendRow(c Calculation, id ItemID, values []NumericString) error {
	if len(values) > 3 {
		return fmt.Errorf("%w: %s line takes at most 3 values, got %d",
			ErrInvalidInput, c.Type(), len(values))
	}
	at := func(i int, def NumericString) NumericString {
		if i < len(values) {
			return values[i]
		}
		return def
	}

	var added bool
	switch calc := c.(type) {
	case *SheetsByWeightCalc:
		p := NewSheetWeightPiece(id)
		p.Quantity, p.PieceLength, p.PieceWidth = at(0, p.Quantity), at(1, ""), at(2, "")
		if calc.Items == nil {
			calc.Items = NewItemList[SheetWeightPiece]()
		}
		added = calc.Items.Add(p)
	case *BarsByWeightCalc:
		p := NewBarPiece(id)
		p.AssemblyQty, p.PieceQty, p.PieceLength = at(0, p.AssemblyQty), at(1, p.PieceQty), at(2, "")
		if calc.Items == nil {
			calc.Items = NewItemList[BarPiece]()
		}
		added = calc.Items.Add(p)
	case *SheetsByUnitCalc:
		p := NewSheetUnitPiece(id)
		p.PieceLength, p.PieceWidth, p.Quantity = at(0, ""), at(1, ""), at(2, p.Quantity)
		if calc.Items == nil {
			calc.Items = NewItemList[SheetUnitPiece]()
		}
		added = calc.Items.Add(p)
	case *PaintByAreaCalc:
		a := NewPaintArea(id)
		a.Length, a.Width, a.FaceCount = at(0, ""), at(1, ""), at(2, a.FaceCount)
		if calc.Items == nil {
			calc.Items = NewItemList[PaintArea]()
		}
		added = calc.Items.Add(a)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, c)
	}

	if !added {
		return fmt.Errorf("%w: duplicate item id %d", ErrInvalidInput, id)
	}
	return nil
}

// SetCell sets column col of the line item id, in the column order of
// Tabulate.
func SetCell(c Calculation, id ItemID, col int, v NumericString) error {
	if col < 0 || col > 2 {
		return fmt.Errorf("%w: column %d out of range", ErrInvalidInput, col)
	}

	var updated bool
	switch calc := c.(type) {
	case *SheetsByWeightCalc:
		if p, ok := calc.Items.Get(id); ok {
			setField(col, v, &p.Quantity, &p.PieceLength, &p.PieceWidth)
			updated = calc.Items.Update(p)
		}
	case *BarsByWeightCalc:
		if p, ok := calc.Items.Get(id); ok {
			setField(col, v, &p.AssemblyQty, &p.PieceQty, &p.PieceLength)
			updated = calc.Items.Update(p)
		}
	case *SheetsByUnitCalc:
		if p, ok := calc.Items.Get(id); ok {
			setField(col, v, &p.PieceLength, &p.PieceWidth, &p.Quantity)
			updated = calc.Items.Update(p)
		}
	case *PaintByAreaCalc:
		if a, ok := calc.Items.Get(id); ok {
			setField(col, v, &a.Length, &a.Width, &a.FaceCount)
			updated = calc.Items.Update(a)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, c)
	}

	if !updated {
		return fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	return nil
}

func setField(col int, v NumericString, fields ...*NumericString) {
	*fields[col] = v
}

// RemoveRow deletes the line item id. It reports whether the item existed.
func RemoveRow(c Calculation, id ItemID) bool {
	switch calc := c.(type) {
	case *SheetsByWeightCalc:
		return calc.Items.Remove(id)
	case *BarsByWeightCalc:
		return calc.Items.Remove(id)
	case *SheetsByUnitCalc:
		return calc.Items.Remove(id)
	case *PaintByAreaCalc:
		return calc.Items.Remove(id)
	default:
		return false
	}
}
