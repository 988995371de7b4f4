package driving

import "github.com/custodia-labs/docassist-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling unset keys with defaults.
	Get() (*domain.Settings, error)

	// Save persists settings.
	Save(settings *domain.Settings) error

	// SetCompletionProvider configures where replies come from.
	SetCompletionProvider(provider domain.CompletionProvider, model, apiKey string) error

	// SetUploadDriver selects simulated or backend uploads.
	SetUploadDriver(kind domain.UploadDriverKind) error

	// Validate checks that the configured providers are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
