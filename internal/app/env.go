package app

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// Environment variables that override stored settings for one process.
const (
	EnvAPIURL          = "DOCASSIST_API_URL"
	EnvCompletion      = "DOCASSIST_COMPLETION_PROVIDER"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// LoadEnvFile reads KEY=VALUE pairs from path into the process environment.
// Variables already set are kept. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ApplyEnv overlays environment overrides onto settings.
func ApplyEnv(settings *domain.Settings, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		settings.API.BaseURL = v
	}
	if v := domain.CompletionProvider(strings.TrimSpace(getenv(EnvCompletion))); v.IsValid() {
		settings.Completion.Provider = v
	}
	if settings.Completion.APIKey != "" {
		return
	}
	switch settings.Completion.Provider {
	case domain.CompletionOpenAI:
		settings.Completion.APIKey = getenv(EnvOpenAIAPIKey)
	case domain.CompletionAnthropic:
		settings.Completion.APIKey = getenv(EnvAnthropicAPIKey)
	}
}
