package history

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/services"
)

func seededHistory(t *testing.T, n int) *services.HistoryService {
	t.Helper()
	history := services.NewHistoryService(memory.NewKVStore(), "")
	for i := 0; i < n; i++ {
		c := domain.NewPaintByArea(domain.DefaultPaintCoverageRate(),
			domain.PaintArea{ID: 1, Length: "1000", Width: "1000", FaceCount: "2"})
		require.NoError(t, history.Append(context.Background(), domain.NewRecord(int64(1700000000000+i), c)))
	}
	return history
}

// run executes cmd and feeds the resulting message back into the view.
func run(v *View, cmd tea.Cmd) {
	if cmd != nil {
		v.Update(cmd())
	}
}

func TestView_Init_LoadsHistory(t *testing.T) {
	v := NewView(nil, seededHistory(t, 2))

	run(v, v.Init())

	assert.Equal(t, 2, v.Count())
	out := v.View()
	assert.Contains(t, out, "Histórico (2)")
	assert.Contains(t, out, "Tinta por Área")
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil)

	run(v, v.Init())

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "No saved calculations")
}

func TestView_Enter_SelectsRecord(t *testing.T) {
	v := NewView(nil, seededHistory(t, 2))
	run(v, v.Init())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.RecordSelected)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), selected.Record.ID)
}

func TestView_Enter_EmptyList(t *testing.T) {
	v := NewView(nil, seededHistory(t, 0))
	run(v, v.Init())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Clear_Confirmed(t *testing.T) {
	history := seededHistory(t, 3)
	v := NewView(nil, history)
	run(v, v.Init())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.True(t, v.Confirming())
	assert.Contains(t, v.View(), "Delete 3 saved calculation(s)?")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	cleared, ok := cmd().(messages.HistoryCleared)
	require.True(t, ok)
	require.NoError(t, cleared.Err)

	_, reload := v.Update(cleared)
	run(v, reload)

	assert.False(t, v.Confirming())
	assert.Equal(t, 0, v.Count())
	assert.Empty(t, history.List(context.Background()))
}

func TestView_Clear_Declined(t *testing.T) {
	history := seededHistory(t, 1)
	v := NewView(nil, history)
	run(v, v.Init())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.Nil(t, cmd)
	assert.False(t, v.Confirming())
	assert.Len(t, history.List(context.Background()), 1)
}

func TestView_Clear_EmptyListDoesNotAsk(t *testing.T) {
	v := NewView(nil, seededHistory(t, 0))
	run(v, v.Init())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.False(t, v.Confirming())
}

func TestView_HistoryChanged_Reloads(t *testing.T) {
	history := seededHistory(t, 1)
	v := NewView(nil, history)
	run(v, v.Init())

	c := domain.NewSheetsByUnit(domain.DefaultSheetArea(),
		domain.SheetUnitPiece{ID: 1, PieceLength: "1000", PieceWidth: "1000", Quantity: "1"})
	require.NoError(t, history.Append(context.Background(), domain.NewRecord(1800000000000, c)))

	_, cmd := v.Update(messages.HistoryChanged{})
	run(v, cmd)

	assert.Equal(t, 2, v.Count())
}

func TestView_Escape(t *testing.T) {
	v := NewView(nil, seededHistory(t, 0))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
