package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAPIBaseURL           = "api.base_url"
	KeyAPITimeout           = "api.timeout"
	KeyAPIRequestsPerSecond = "api.requests_per_second"
	KeyUploadDriver         = "upload.driver"
	KeyUploadSteps          = "upload.steps"
	KeyUploadStepInterval   = "upload.step_interval"
	KeyUploadProcessing     = "upload.processing_delay"
	KeySeedSamples          = "documents.seed_samples"
	KeyWelcomeMessage       = "chat.welcome_message"
	KeyCompletionProvider   = "completion.provider"
	KeyCompletionModel      = "completion.model"
	KeyCompletionBaseURL    = "completion.base_url"
	KeyCompletionAPIKey     = "completion.api_key"
	KeySimulatedDelay       = "completion.simulated_delay"
)

// SettingsService reads and writes typed settings through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Unset or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	provider := domain.CompletionProvider(s.getString(KeyCompletionProvider, ""))
	if !provider.IsValid() {
		provider = defaults.Completion.Provider
	}
	driver := domain.UploadDriverKind(s.getString(KeyUploadDriver, ""))
	if !driver.IsValid() {
		driver = defaults.Upload.Driver
	}

	return &domain.Settings{
		API: domain.APISettings{
			BaseURL:           s.getString(KeyAPIBaseURL, defaults.API.BaseURL),
			Timeout:           s.getDuration(KeyAPITimeout, defaults.API.Timeout),
			RequestsPerSecond: s.getFloat(KeyAPIRequestsPerSecond, defaults.API.RequestsPerSecond),
		},
		Upload: domain.UploadSettings{
			Driver:          driver,
			Steps:           s.getInt(KeyUploadSteps, defaults.Upload.Steps),
			StepInterval:    s.getDuration(KeyUploadStepInterval, defaults.Upload.StepInterval),
			ProcessingDelay: s.getDuration(KeyUploadProcessing, defaults.Upload.ProcessingDelay),
		},
		Documents: domain.DocumentSettings{
			SeedSamples: s.getBool(KeySeedSamples, defaults.Documents.SeedSamples),
		},
		Chat: domain.ChatSettings{
			WelcomeMessage: s.getString(KeyWelcomeMessage, defaults.Chat.WelcomeMessage),
		},
		Completion: domain.CompletionSettings{
			Provider:       provider,
			Model:          s.configStore.GetString(KeyCompletionModel),
			BaseURL:        s.configStore.GetString(KeyCompletionBaseURL),
			APIKey:         s.configStore.GetString(KeyCompletionAPIKey),
			SimulatedDelay: s.getDuration(KeySimulatedDelay, defaults.Completion.SimulatedDelay),
		},
	}, nil
}

// Save persists settings. The API key is only written when set.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyAPIBaseURL, settings.API.BaseURL},
		{KeyAPITimeout, settings.API.Timeout.String()},
		{KeyAPIRequestsPerSecond, settings.API.RequestsPerSecond},
		{KeyUploadDriver, settings.Upload.Driver.String()},
		{KeyUploadSteps, settings.Upload.Steps},
		{KeyUploadStepInterval, settings.Upload.StepInterval.String()},
		{KeyUploadProcessing, settings.Upload.ProcessingDelay.String()},
		{KeySeedSamples, settings.Documents.SeedSamples},
		{KeyWelcomeMessage, settings.Chat.WelcomeMessage},
		{KeyCompletionProvider, settings.Completion.Provider.String()},
		{KeyCompletionModel, settings.Completion.Model},
		{KeyCompletionBaseURL, settings.Completion.BaseURL},
		{KeySimulatedDelay, settings.Completion.SimulatedDelay.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Completion.APIKey != "" {
		if err := s.configStore.Set(KeyCompletionAPIKey, settings.Completion.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyCompletionAPIKey, err)
		}
	}
	return nil
}

// SetCompletionProvider configures where replies come from.
func (s *SettingsService) SetCompletionProvider(provider domain.CompletionProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: completion provider %q", domain.ErrUnsupportedType, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Completion.Provider = provider
	settings.Completion.Model = model
	if model == "" {
		settings.Completion.Model = domain.DefaultCompletionModels()[provider]
	}
	if provider == domain.CompletionOllama && settings.Completion.BaseURL == "" {
		settings.Completion.BaseURL = "http://localhost:11434"
	}
	if !provider.IsLLM() {
		settings.Completion.BaseURL = ""
	}
	settings.Completion.APIKey = apiKey

	return s.Save(settings)
}

// SetUploadDriver selects simulated or backend uploads.
func (s *SettingsService) SetUploadDriver(kind domain.UploadDriverKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: upload driver %q", domain.ErrUnsupportedType, kind)
	}
	return s.configStore.Set(KeyUploadDriver, kind.String())
}

// Validate checks that the configured providers are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Completion.IsConfigured() {
		return fmt.Errorf("completion provider %q is not configured: %w",
			settings.Completion.Provider.Description(), domain.ErrCompletionUnavailable)
	}
	if settings.Upload.Steps < 1 || settings.Upload.Steps > domain.ProgressMax {
		return fmt.Errorf("%w: upload.steps must be between 1 and %d", domain.ErrInvalidInput, domain.ProgressMax)
	}
	if settings.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
