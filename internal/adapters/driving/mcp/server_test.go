package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("nil calculator service returns error", func(t *testing.T) {
		ports := &Ports{History: &mockHistoryService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCalculatorService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server := newTestServer(t)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	history := &mockHistoryService{}
	calc := services.NewCalculatorService(history, nil)

	t.Run("empty ports", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingCalculatorService)
	})

	t.Run("missing history", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{Calculator: calc}).Validate(), ErrMissingHistoryService)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		assert.NoError(t, (&Ports{Calculator: calc, History: history}).Validate())
	})
}

func TestInstructions_NameEveryTool(t *testing.T) {
	for _, name := range []string{"list_calculators", "calculate", "history_list", "history_get"} {
		assert.Contains(t, instructions, name)
	}
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
