package services

import (
	"fmt"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/core/ports/driven"
	"github.com/custodia-labs/chapas/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyStorageBackend  = "storage.backend"
	KeyStoragePath     = "storage.path"
	KeyStorageDSN      = "storage.dsn"
	KeyHistoryKey      = "history.key"
	KeyBarLength       = "defaults.bars.length"
	KeySheetUnitLength = "defaults.sheets_unit.length"
	KeySheetUnitWidth  = "defaults.sheets_unit.width"
	KeyPaintCoverage   = "defaults.paint.coverage"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend:    s.getBackend(defaults.Storage.Backend),
			Path:       s.configStore.GetString(KeyStoragePath), // Empty means the default location
			DSN:        s.configStore.GetString(KeyStorageDSN),
			HistoryKey: s.getString(KeyHistoryKey, defaults.Storage.HistoryKey),
		},
		Defaults: domain.DefaultsSettings{
			BarLength:       s.getNumber(KeyBarLength, defaults.Defaults.BarLength),
			SheetUnitLength: s.getNumber(KeySheetUnitLength, defaults.Defaults.SheetUnitLength),
			SheetUnitWidth:  s.getNumber(KeySheetUnitWidth, defaults.Defaults.SheetUnitWidth),
			PaintCoverage:   s.getNumber(KeyPaintCoverage, defaults.Defaults.PaintCoverage),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value string
	}{
		{KeyStorageBackend, settings.Storage.Backend.String()},
		{KeyStoragePath, settings.Storage.Path},
		{KeyStorageDSN, settings.Storage.DSN},
		{KeyHistoryKey, settings.Storage.HistoryKey},
		{KeyBarLength, settings.Defaults.BarLength.String()},
		{KeySheetUnitLength, settings.Defaults.SheetUnitLength.String()},
		{KeySheetUnitWidth, settings.Defaults.SheetUnitWidth.String()},
		{KeyPaintCoverage, settings.Defaults.PaintCoverage.String()},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Keys returns the settable config keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyStorageBackend,
		KeyStoragePath,
		KeyStorageDSN,
		KeyHistoryKey,
		KeyBarLength,
		KeySheetUnitLength,
		KeySheetUnitWidth,
		KeyPaintCoverage,
	}
}

// SetValue validates and stores a single setting.
func (s *SettingsService) SetValue(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyStorageBackend:
		backend := domain.StorageBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, value)
		}
		settings.Storage.Backend = backend
	case KeyStoragePath:
		settings.Storage.Path = value
	case KeyStorageDSN:
		settings.Storage.DSN = value
	case KeyHistoryKey:
		if value == "" {
			return fmt.Errorf("%w: history key cannot be empty", domain.ErrInvalidInput)
		}
		settings.Storage.HistoryKey = value
	case KeyBarLength, KeySheetUnitLength, KeySheetUnitWidth, KeyPaintCoverage:
		if domain.ParseNumber(value) <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidInput, key, value)
		}
		n := domain.NumericString(value)
		switch key {
		case KeyBarLength:
			settings.Defaults.BarLength = n
		case KeySheetUnitLength:
			settings.Defaults.SheetUnitLength = n
		case KeySheetUnitWidth:
			settings.Defaults.SheetUnitWidth = n
		default:
			settings.Defaults.PaintCoverage = n
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Reset removes every stored setting so the defaults apply again.
func (s *SettingsService) Reset() error {
	for _, key := range s.Keys() {
		if err := s.configStore.Unset(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks that the configured storage can be opened.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}
	if !settings.Storage.IsConfigured() {
		return fmt.Errorf(
			"storage backend %q requires %s to be configured",
			settings.Storage.Backend.Description(), KeyStorageDSN,
		)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getNumber falls back to the default when the stored value is missing or
// not a positive number. TOML may hold the value as a string or a number.
func (s *SettingsService) getNumber(key string, defaultVal domain.NumericString) domain.NumericString {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	var val domain.NumericString
	switch v := raw.(type) {
	case string:
		val = domain.NumericString(v)
	case int, int64, float64:
		val = domain.NumericString(fmt.Sprint(v))
	default:
		return defaultVal
	}
	if val.Float() <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(KeyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
