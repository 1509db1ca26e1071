package driving

import "github.com/custodia-labs/chapas/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetValue updates a single setting by its config key.
	SetValue(key, value string) error

	// Reset restores every setting to its default.
	Reset() error

	// Keys returns the settable config keys in display order.
	Keys() []string

	// Validate checks that the configured storage can be opened.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
