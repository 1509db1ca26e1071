package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/filestore"
	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/chapas/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driven"
	"github.com/custodia-labs/chapas/internal/logger"
)

// Environment variables that override stored settings for one run.
const (
	envStorageBackend = "CHAPAS_STORAGE_BACKEND"
	envDatabaseURL    = "CHAPAS_DATABASE_URL"
)

// applyEnv returns s with environment overrides applied. An unknown backend
// name is ignored with a warning.
func applyEnv(s domain.StorageSettings, getenv func(string) string) domain.StorageSettings {
	if v := getenv(envStorageBackend); v != "" {
		if b := domain.StorageBackend(v); b.IsValid() {
			s.Backend = b
		} else {
			logger.Warn("Ignoring %s=%q: unknown storage backend", envStorageBackend, v)
		}
	}
	if v := getenv(envDatabaseURL); v != "" {
		s.DSN = v
	}
	if s.HistoryKey == "" {
		s.HistoryKey = domain.DefaultHistoryKey
	}
	return s
}

// openStore opens the configured key-value store. When it cannot be
// opened the history falls back to memory so that settings can still be
// fixed; the warning says so. The returned func releases the store.
func openStore(ctx context.Context, s domain.StorageSettings, configDir string) (driven.KeyValueStore, func()) {
	store, err := open(ctx, s, configDir)
	if err != nil {
		logger.Warn("Cannot open %s storage, history will not be saved this run: %v", s.Backend, err)
		return memory.NewKVStore(), func() {}
	}
	logger.Debug("Using %s storage", s.Backend)

	return store, func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("Closing storage: %v", err)
			}
		}
	}
}

func open(ctx context.Context, s domain.StorageSettings, configDir string) (driven.KeyValueStore, error) {
	if !s.IsConfigured() {
		return nil, notConfiguredError(s.Backend)
	}

	switch s.Backend {
	case domain.StorageBackendFile:
		dir := s.Path
		if dir == "" {
			dir = filepath.Join(configDir, "history")
		}
		return filestore.NewStore(dir)
	case domain.StorageBackendPostgres:
		return postgres.NewStore(ctx, s.DSN)
	case domain.StorageBackendMemory:
		return memory.NewKVStore(), nil
	default:
		dir := s.Path
		if dir == "" {
			dir = sqlite.DefaultDataDir(configDir)
		}
		return sqlite.NewStore(dir)
	}
}

type notConfiguredError domain.StorageBackend

func (e notConfiguredError) Error() string {
	if domain.StorageBackend(e).RequiresDSN() {
		return string(e) + " needs storage.dsn or " + envDatabaseURL
	}
	return "unknown storage backend " + string(e)
}
