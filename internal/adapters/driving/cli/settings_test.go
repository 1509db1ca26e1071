package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/services"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short secret",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long secret",
			input:    "host=db password=secret",
			expected: "host...cret",
		},
		{
			name:     "Empty",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	masked := maskDSN("postgres://chapas:s3cret@db:5432/chapas")
	assert.NotContains(t, masked, "s3cret")
	assert.Contains(t, masked, "db:5432")

	assert.Equal(t, "host...=db1", maskDSN("host=localhost dbname=db1"))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty uses default", "", 4, 1, 1},
		{"Valid choice", "3", 4, 1, 3},
		{"Too large", "5", 4, 2, 2},
		{"Zero", "0", 4, 2, 2},
		{"Not a number", "abc", 4, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestSettingsShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Storage]")
	assert.Contains(t, out, "History key: @calculos_chapas_history")
	assert.Contains(t, out, "Bar length (mm): 6000")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "set", services.KeyBarLength, "12000")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults.bars.length = 12000")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.NumericString("12000"), settings.Defaults.BarLength)

	out, err = executeCommand("calc", "bars-kg", "--weight", "24", "--item", "1:1:6000")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 12,0000 Kg")
}

func TestSettingsSet_Invalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("settings", "set", services.KeyPaintCoverage, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCommand("settings", "set", "no.such.key", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSet_MasksDSN(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "set", services.KeyStorageDSN, "postgres://u:hunter22@db/chapas")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter22")
}

func TestSettingsShow_WarnsWhenPostgresHasNoDSN(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.SetValue(services.KeyStorageBackend, "postgres"))

	out, err := executeCommand("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "DSN: (not set)")
	assert.Contains(t, out, "Warning:")
}

func TestSettingsReset(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.SetValue(services.KeyHistoryKey, "other"))

	out, err := executeCommand("settings", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings restored to defaults.")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHistoryKey, settings.Storage.HistoryKey)
}
