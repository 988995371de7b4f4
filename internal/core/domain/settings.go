package domain

import "time"

const unknownDescription = "Unknown"

// UploadDriverKind selects how uploads are carried out.
type UploadDriverKind string

// Available upload drivers.
const (
	// UploadDriverSimulated advances uploads on timers without any network traffic.
	UploadDriverSimulated UploadDriverKind = "simulated"

	// UploadDriverBackend sends files to the document-assistant API.
	UploadDriverBackend UploadDriverKind = "backend"
)

// IsValid returns true if the driver is recognised.
func (k UploadDriverKind) IsValid() bool {
	switch k {
	case UploadDriverSimulated, UploadDriverBackend:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k UploadDriverKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the driver.
func (k UploadDriverKind) Description() string {
	switch k {
	case UploadDriverSimulated:
		return "Simulated (local progress timers)"
	case UploadDriverBackend:
		return "Backend (document-assistant API)"
	default:
		return unknownDescription
	}
}

// CompletionProvider identifies where assistant replies come from.
type CompletionProvider string

// Available completion providers.
const (
	// CompletionSimulated returns a canned reply after a short delay.
	CompletionSimulated CompletionProvider = "simulated"

	// CompletionAPI posts to the document-assistant API's chat endpoint.
	CompletionAPI CompletionProvider = "api"

	// CompletionOllama is a local Ollama instance.
	CompletionOllama CompletionProvider = "ollama"

	// CompletionOpenAI is the OpenAI cloud API.
	CompletionOpenAI CompletionProvider = "openai"

	// CompletionAnthropic is the Anthropic messages API.
	CompletionAnthropic CompletionProvider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p CompletionProvider) IsValid() bool {
	switch p {
	case CompletionSimulated, CompletionAPI, CompletionOllama, CompletionOpenAI, CompletionAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p CompletionProvider) RequiresAPIKey() bool {
	return p == CompletionOpenAI || p == CompletionAnthropic
}

// IsLLM returns true if this provider is backed by an LLM chat endpoint.
func (p CompletionProvider) IsLLM() bool {
	switch p {
	case CompletionOllama, CompletionOpenAI, CompletionAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p CompletionProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p CompletionProvider) Description() string {
	switch p {
	case CompletionSimulated:
		return "Simulated (canned replies)"
	case CompletionAPI:
		return "Document API (remote)"
	case CompletionOllama:
		return "Ollama (local)"
	case CompletionOpenAI:
		return "OpenAI (cloud)"
	case CompletionAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// APISettings holds document-assistant API configuration.
type APISettings struct {
	// BaseURL is the API root, e.g. https://localhost:7139/api.
	BaseURL string

	// Timeout bounds every HTTP request.
	Timeout time.Duration

	// RequestsPerSecond caps outbound request rate. Zero disables limiting.
	RequestsPerSecond float64
}

// UploadSettings holds upload pipeline configuration.
type UploadSettings struct {
	// Driver selects simulated or backend uploads.
	Driver UploadDriverKind

	// Steps is the number of equal progress increments while uploading.
	Steps int

	// StepInterval is the delay between progress increments.
	StepInterval time.Duration

	// ProcessingDelay is how long a document stays in processing.
	ProcessingDelay time.Duration
}

// DocumentSettings holds document store configuration.
type DocumentSettings struct {
	// SeedSamples adds the demo documents to a fresh store.
	SeedSamples bool
}

// ChatSettings holds conversation configuration.
type ChatSettings struct {
	// WelcomeMessage is the first message of every conversation.
	WelcomeMessage string
}

// CompletionSettings holds completion provider configuration.
type CompletionSettings struct {
	// Provider is the completion source.
	Provider CompletionProvider

	// Model is the LLM model name. Ignored by simulated and api providers.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI and Anthropic).
	APIKey string

	// SimulatedDelay is how long the simulated provider waits before replying.
	SimulatedDelay time.Duration
}

// IsConfigured returns true if the completion provider is set up.
func (c CompletionSettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// Settings holds all application settings.
type Settings struct {
	// API holds document-assistant API settings.
	API APISettings

	// Upload holds upload pipeline settings.
	Upload UploadSettings

	// Documents holds document store settings.
	Documents DocumentSettings

	// Chat holds conversation settings.
	Chat ChatSettings

	// Completion holds completion provider settings.
	Completion CompletionSettings
}

// Default values.
const (
	DefaultAPIBaseURL         = "https://localhost:7139/api"
	DefaultAPITimeout         = 30 * time.Second
	DefaultRequestsPerSecond  = 5
	DefaultUploadSteps        = 10
	DefaultStepInterval       = 300 * time.Millisecond
	DefaultProcessingDelay    = 2 * time.Second
	DefaultSimulatedReplyWait = 1500 * time.Millisecond
)

// DefaultSettings returns settings that work without any configuration:
// simulated uploads, simulated replies and the demo documents.
func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			BaseURL:           DefaultAPIBaseURL,
			Timeout:           DefaultAPITimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Upload: UploadSettings{
			Driver:          UploadDriverSimulated,
			Steps:           DefaultUploadSteps,
			StepInterval:    DefaultStepInterval,
			ProcessingDelay: DefaultProcessingDelay,
		},
		Documents: DocumentSettings{
			SeedSamples: true,
		},
		Chat: ChatSettings{
			WelcomeMessage: WelcomeMessage,
		},
		Completion: CompletionSettings{
			Provider:       CompletionSimulated,
			SimulatedDelay: DefaultSimulatedReplyWait,
		},
	}
}

// AllCompletionProviders returns all available completion providers.
func AllCompletionProviders() []CompletionProvider {
	return []CompletionProvider{
		CompletionSimulated,
		CompletionAPI,
		CompletionOllama,
		CompletionOpenAI,
		CompletionAnthropic,
	}
}

// DefaultCompletionModels returns default models for each LLM provider.
func DefaultCompletionModels() map[CompletionProvider]string {
	return map[CompletionProvider]string{
		CompletionOllama:    "llama3.2",
		CompletionOpenAI:    "gpt-4o-mini",
		CompletionAnthropic: "claude-3-5-sonnet-latest",
	}
}
