// Package cli provides the cobra command tree for the chapas binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chapas/internal/core/ports/driving"
	"github.com/custodia-labs/chapas/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var verbose bool

// Services used by the commands. They are nil until SetServices is called.
var (
	calculatorService driving.CalculatorService
	historyService    driving.HistoryService
	settingsService   driving.SettingsService
	exportService     driving.ExportService
)

var rootCmd = &cobra.Command{
	Use:   "chapas",
	Short: "Sheet, bar and paint material calculators",
	Long: `Chapas computes material quantities for metal fabrication:

  sheets-kg  mass of pieces cut from a master sheet
  bars-kg    mass of pieces cut from a master bar or tube
  sheets-un  fraction of master sheets consumed
  paint      paint volume for a set of areas

Calculations can be saved to a local history and exported to
JSON, Excel or PDF.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles the driving ports the commands depend on.
type Services struct {
	Calculator driving.CalculatorService
	History    driving.HistoryService
	Settings   driving.SettingsService
	Export     driving.ExportService
}

// SetServices wires the services used by the commands.
func SetServices(s Services) {
	calculatorService = s.Calculator
	historyService = s.History
	settingsService = s.Settings
	exportService = s.Export
}

// SetVersion sets the version reported by "chapas version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx, which is cancelled on interrupt
// by the caller.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
