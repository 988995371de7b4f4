package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Base URL: https://localhost:7139/api")
	assert.Contains(t, out, "Driver: Simulated (local progress timers)")
	assert.Contains(t, out, "Steps: 10 x 300ms")
	assert.Contains(t, out, "Provider: Simulated (canned replies)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsProvider(t *testing.T) {
	ts := setupTestServices(t)

	t.Run("sets provider and model", func(t *testing.T) {
		out, err := execute(t, "settings", "provider", "ollama", "--model", "llama3.2")
		require.NoError(t, err)
		assert.Contains(t, out, "Completion provider set to: Ollama (local)")

		settings, err := ts.settings.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.CompletionOllama, settings.Completion.Provider)
		assert.Equal(t, "llama3.2", settings.Completion.Model)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := execute(t, "settings", "provider", "bogus")
		assert.ErrorContains(t, err, `unknown provider "bogus"`)
	})
}

func TestSettingsUploadDriver(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "settings", "upload-driver", "backend")

	require.NoError(t, err)
	assert.Contains(t, out, "Upload driver set to: Backend (document-assistant API)")
	settings, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.UploadDriverBackend, settings.Upload.Driver)
}

func TestSettingsAPIURL(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "settings", "api-url", "http://127.0.0.1:8090/api")

	require.NoError(t, err)
	assert.Contains(t, out, "API base URL set to: http://127.0.0.1:8090/api")
	settings, err := ts.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8090/api", settings.API.BaseURL)
}

func TestSettingsCheck(t *testing.T) {
	setupTestServices(t)

	t.Run("valid", func(t *testing.T) {
		out, err := execute(t, "settings", "check")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid.")
	})

	t.Run("provider unreachable", func(t *testing.T) {
		validateCompletion = func(context.Context) error { return domain.ErrCompletionUnavailable }
		defer func() { validateCompletion = nil }()

		out, err := execute(t, "settings", "check")
		assert.ErrorIs(t, err, domain.ErrCompletionUnavailable)
		assert.Contains(t, out, "FAILED")
	})
}

func TestProviderNames(t *testing.T) {
	assert.Equal(t, []string{"simulated", "api", "ollama", "openai", "anthropic"}, providerNames())
}
