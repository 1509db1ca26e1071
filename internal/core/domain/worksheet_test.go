package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMaster(t *testing.T) {
	c := NewSheetsByWeight(SheetMass{})

	require.NoError(t, SetMaster(c, "length", "1000"))
	require.NoError(t, SetMaster(c, " Width ", "1000"))
	require.NoError(t, SetMaster(c, MasterWeight, "50"))
	assert.Equal(t, SheetMass{Length: "1000", Width: "1000", Weight: "50"}, c.Master)

	err := SetMaster(c, MasterCoverage, "1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "length, width, weight")
}

func TestSetMaster_EachType(t *testing.T) {
	for _, ct := range AllCalculatorTypes() {
		c, err := DefaultAppSettings().Defaults.NewCalculation(ct)
		require.NoError(t, err)
		for _, key := range MasterKeys(ct) {
			assert.NoError(t, SetMaster(c, key, "7"), "%s.%s", ct, key)
		}
		for _, f := range Tabulate(c).Master {
			assert.Equal(t, NumericString("7"), f.Value)
		}
	}
}

func TestAppendRow(t *testing.T) {
	c := NewSheetsByWeight(SheetMass{Length: "1000", Width: "1000", Weight: "50"})

	require.NoError(t, AppendRow(c, 1, []NumericString{"2", "500", "250"}))
	assert.InDelta(t, 6.25, c.Total(), epsilon)

	err := AppendRow(c, 1, []NumericString{"1", "1", "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = AppendRow(c, 2, []NumericString{"1", "1", "1", "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAppendRow_KeepsLineDefaults(t *testing.T) {
	bars := NewBarsByWeight(DefaultBarMass())
	require.NoError(t, AppendRow(bars, 1, []NumericString{}))
	piece, ok := bars.Items.Get(1)
	require.True(t, ok)
	assert.Equal(t, NumericString("1"), piece.AssemblyQty)
	assert.Equal(t, NumericString("1"), piece.PieceQty)

	paint := &PaintByAreaCalc{Master: DefaultPaintCoverageRate()}
	require.NoError(t, AppendRow(paint, 1, []NumericString{"1000", "1000"}))
	area, ok := paint.Items.Get(1)
	require.True(t, ok)
	assert.Equal(t, NumericString("1"), area.FaceCount)
	assert.InDelta(t, 0.083, paint.Total(), epsilon)
}

func TestSetCell(t *testing.T) {
	c := NewSheetsByUnit(DefaultSheetArea(), NewSheetUnitPiece(7))

	require.NoError(t, SetCell(c, 7, 0, "1000"))
	require.NoError(t, SetCell(c, 7, 1, "2000"))
	require.NoError(t, SetCell(c, 7, 2, "4"))
	assert.InDelta(t, 1, c.Total(), epsilon)

	table := Tabulate(c)
	assert.Equal(t, []ItemID{7}, table.IDs)
	assert.Equal(t, []NumericString{"1000", "2000", "4"}, table.Rows[0])

	assert.ErrorIs(t, SetCell(c, 8, 0, "1"), ErrNotFound)
	assert.ErrorIs(t, SetCell(c, 7, 3, "1"), ErrInvalidInput)
}

func TestRemoveRow(t *testing.T) {
	c := NewPaintByArea(DefaultPaintCoverageRate(), NewPaintArea(1), NewPaintArea(2))

	assert.True(t, RemoveRow(c, 1))
	assert.False(t, RemoveRow(c, 1))
	assert.Equal(t, []ItemID{2}, Tabulate(c).IDs)
}
