package domain

import "time"

// Record is one completed calculation in the history log. Records are
// written once and never edited.
type Record struct {
	// ID is the creation time in epoch milliseconds. It is both the list
	// identity and the chronological sort key.
	ID int64

	// Type is the persisted tag. It may be a tag this version does not know.
	Type CalculatorType

	// Total is the grand total as computed when the record was saved.
	Total float64

	// Calculation holds the decoded master parameters and line items.
	// It is nil when Type is unknown.
	Calculation Calculation

	// Raw is the stored form of a record whose type is unknown, so it can be
	// written back unchanged.
	Raw []byte
}

// NewRecord snapshots c under the given id. Later edits to c do not reach
// the record.
func NewRecord(id int64, c Calculation) Record {
	snap := c.Clone()
	return Record{
		ID:          id,
		Type:        snap.Type(),
		Total:       snap.Total(),
		Calculation: snap,
	}
}

// CreatedAt converts the id back to a timestamp.
func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.ID)
}

// Known reports whether the record could be fully decoded.
func (r Record) Known() bool {
	return r.Type.IsValid() && r.Calculation != nil
}

// Title returns the display title, falling back to a generic one for
// unknown types.
func (r Record) Title() string {
	return r.Type.Title()
}

// Unit returns the unit of Total.
func (r Record) Unit() string {
	return r.Type.Unit()
}

// DisplayTotal formats the total with its unit, e.g. "6,2500 Kg".
func (r Record) DisplayTotal() string {
	return r.Type.FormatTotal(r.Total)
}
