package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/services"
)

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records []domain.Record
	err     error
}

func (m *mockHistoryService) Append(_ context.Context, _ domain.Record) error {
	return m.err
}

func (m *mockHistoryService) List(_ context.Context) []domain.Record {
	return m.records
}

func (m *mockHistoryService) Get(_ context.Context, id int64) (domain.Record, error) {
	if m.err != nil {
		return domain.Record{}, m.err
	}
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}

func (m *mockHistoryService) Watch(_ context.Context) (<-chan struct{}, error) {
	return nil, domain.ErrWatchUnsupported
}

// newTestServer builds a server over real services and an in-memory store.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	history := services.NewHistoryService(memory.NewKVStore(), "")
	calc := services.NewCalculatorService(history, nil)

	server, err := NewServer(&Ports{Calculator: calc, History: history})
	require.NoError(t, err)
	return server
}
