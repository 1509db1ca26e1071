// Command chapas computes steel sheet, tube and paint quantities and keeps
// a history of saved calculations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/chapas/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chapas/internal/adapters/driven/export/pdf"
	"github.com/custodia-labs/chapas/internal/adapters/driven/export/xlsx"
	"github.com/custodia-labs/chapas/internal/adapters/driving/cli"
	"github.com/custodia-labs/chapas/internal/core/services"
	"github.com/custodia-labs/chapas/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	// Verbose must be known before the stores open, cobra parses too late.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
		}
	}

	configDir, err := file.DefaultDir()
	if err != nil {
		logger.Warn("Cannot locate config directory: %v", err)
		return err
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		logger.Warn("Cannot open config: %v", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	cfg, err := settingsService.Get()
	if err != nil {
		logger.Warn("Cannot read settings: %v", err)
		return err
	}
	storage := applyEnv(cfg.Storage, os.Getenv)

	store, closeStore := openStore(ctx, storage, configDir)
	defer closeStore()

	historyService := services.NewHistoryService(store, storage.HistoryKey)
	cli.SetServices(cli.Services{
		Calculator: services.NewCalculatorService(historyService, settingsService),
		History:    historyService,
		Settings:   settingsService,
		Export:     services.NewExportService(historyService, xlsx.New(), pdf.New()),
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}
