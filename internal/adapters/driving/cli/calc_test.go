package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/logger"
)

func TestCalcCmd_HasTypeSubcommands(t *testing.T) {
	for _, ct := range domain.AllCalculatorTypes() {
		cmd, _, err := calcCmd.Find([]string{ct.Slug()})
		require.NoError(t, err)
		assert.Equal(t, ct.Slug(), cmd.Name())
		assert.Equal(t, ct.Title(), cmd.Short)

		for _, key := range domain.MasterKeys(ct) {
			assert.NotNil(t, cmd.Flags().Lookup(key), "%s --%s", ct.Slug(), key)
		}
		assert.NotNil(t, cmd.Flags().Lookup("item"))
	}
}

func TestCalcCmd_SheetsByWeight(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "sheets-kg",
		"--length", "1000", "--width", "1000", "--weight", "50",
		"--item", "2:500:250")

	require.NoError(t, err)
	assert.Contains(t, out, "Chapas por Peso")
	assert.Contains(t, out, "6,2500")
	assert.Contains(t, out, "Total: 6,2500 Kg")
	assert.Empty(t, historyService.List(context.Background()))
}

func TestCalcCmd_VerboseLogsSection(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer func() {
		verbose = false
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	_, err := executeCommand("calc", "bars-kg", "--verbose",
		"--length", "6000", "--weight", "24", "--item", "2:3:500")

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "=== Tubos por Peso ===")
	assert.Contains(t, logs.String(), "1 line(s), total 12,0000 Kg")
}

func TestCalcCmd_QuietByDefault(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(os.Stderr)

	_, err := executeCommand("calc", "bars-kg", "--item", "2:3:500")

	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "===")
}

func TestCalcCmd_UsesConfiguredDefaults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "sheets-un", "--item", "1000:2000:4")

	require.NoError(t, err)
	assert.Contains(t, out, "Comprimento (mm): 2000")
	assert.Contains(t, out, "Total: 1,0000")
}

func TestCalcCmd_DecimalComma(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "paint", "--coverage", "0,5", "--item", "1000:1000:2")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1,0000 L")
}

func TestCalcCmd_SaveAppendsToHistory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "bars-kg", "--weight", "24", "--item", "2:3:500", "--save")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 12,0000 Kg")
	assert.Contains(t, out, "Saved to history as")

	records := historyService.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, domain.BarsByWeight, records[0].Type)
	assert.InDelta(t, 12, records[0].Total, 1e-9)
}

func TestCalcCmd_SaveRejectedIsNotAnError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "sheets-kg", "--save")

	require.NoError(t, err)
	assert.Contains(t, out, "Not saved")
	assert.Empty(t, historyService.List(context.Background()))
}

func TestCalcCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "sheets-kg",
		"--length", "1000", "--width", "1000", "--weight", "50",
		"--item", "2:500:250", "--output", "json")
	require.NoError(t, err)

	var got calcOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ChapasKg", got.Type)
	assert.Equal(t, "1000", got.Master["length"])
	require.Len(t, got.Items, 1)
	assert.Equal(t, []string{"2", "500", "250"}, got.Items[0].Values)
	assert.InDelta(t, 6.25, got.Total, 1e-9)
	assert.Equal(t, "6,2500 Kg", got.Display)
}

func TestCalcCmd_YAMLOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("calc", "paint", "--item", "1000:1000", "-o", "yaml")
	require.NoError(t, err)

	var got calcOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "TintaL", got.Type)
	assert.Equal(t, "L", got.Unit)
}

func TestCalcCmd_UnknownOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("calc", "paint", "-o", "xml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalcCmd_TooManyItemValues(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("calc", "paint", "--item", "1:2:3:4")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalcCmd_JobFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "job.yaml")
	job := "type: sheets-kg\nmaster:\n  length: 1000\n  width: 1000\n  weight: 50\nitems:\n  - [2, 500, 250]\n"
	require.NoError(t, os.WriteFile(path, []byte(job), 0o600))

	out, err := executeCommand("calc", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 6,2500 Kg")

	// Flags override the file.
	out, err = executeCommand("calc", "sheets-kg", "--file", path, "--weight", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 12,5000 Kg")
}

func TestCalcCmd_JSONJobFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "job.json")
	job := `{"type": "TubosKg", "master": {"weight": "24"}, "items": [["2", "3", "500"]]}`
	require.NoError(t, os.WriteFile(path, []byte(job), 0o600))

	out, err := executeCommand("calc", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 12,0000 Kg")
}

func TestCalcCmd_JobFileTypeMismatch(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: paint\n"), 0o600))

	_, err := executeCommand("calc", "sheets-kg", "--file", path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	path = filepath.Join(t.TempDir(), "notype.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o600))
	_, err = executeCommand("calc", "--file", path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalcCmd_NoServices(t *testing.T) {
	old := calculatorService
	calculatorService = nil
	defer func() { calculatorService = old }()

	_, err := executeCommand("calc", "paint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculator service not configured")
}

func TestParseItem(t *testing.T) {
	assert.Equal(t, []domain.NumericString{"2", "500,5", ""}, parseItem("2: 500,5 :"))
	assert.Equal(t, []domain.NumericString{"7"}, parseItem("7"))
}
