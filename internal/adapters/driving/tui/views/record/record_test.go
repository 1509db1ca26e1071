package record

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chapas/internal/core/domain"
)

func TestView_Empty(t *testing.T) {
	v := NewView(nil)

	assert.Nil(t, v.Record())
	assert.Contains(t, v.View(), "No record selected")
	assert.Nil(t, v.Init())
}

func TestView_KnownRecord(t *testing.T) {
	c := domain.NewBarsByWeight(domain.BarMass{Length: "6000", Weight: "12"},
		domain.BarPiece{ID: 1, AssemblyQty: "2", PieceQty: "3", PieceLength: "500"})
	v := NewView(nil)
	v.SetRecord(domain.Record{ID: 1700000000000, Type: domain.BarsByWeight, Total: 99, Calculation: c})

	out := v.View()
	assert.Contains(t, out, "Tubos por Peso")
	assert.Contains(t, out, "Record 1700000000000")
	assert.Contains(t, out, "Qtd Montagem")
	assert.Contains(t, out, "Subtotal (Kg)")
	// stored total wins over a recomputation
	assert.Contains(t, out, "Total: 99,0000 Kg")
}

func TestView_UnknownRecord(t *testing.T) {
	v := NewView(nil)
	v.SetRecord(domain.Record{ID: 1, Type: "Chapas3D", Total: 2})

	out := v.View()
	assert.Contains(t, out, "Cálculo")
	assert.Contains(t, out, `Unknown calculation type "Chapas3D"`)
	assert.Contains(t, out, "Total: 2,0000")
}

func TestView_EscapeReturnsToHistory(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHistory}, cmd())
}
