package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/api"
	anthropicllm "github.com/custodia-labs/docassist-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docassist-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docassist-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

const fixHint = "Run 'docassist settings show' to review the completion settings"

// Deps holds collaborators shared with the rest of the application.
type Deps struct {
	// APIClient is reused by the api provider. Created from settings when nil.
	APIClient *api.Client

	// Prompts supplies the LLM system prompt. Optional.
	Prompts driven.PromptStore

	// Documents resolves selected IDs for LLM prompts. Optional.
	Documents DocumentLookup
}

// Result holds the completion service and anything it owns.
type Result struct {
	Service driven.CompletionService

	// LLM is set for LLM-backed providers.
	LLM driven.LLMService
}

// Close releases resources held by the result.
func (r *Result) Close() {
	if r != nil && r.LLM != nil {
		_ = r.LLM.Close()
	}
}

// New creates the completion service selected by settings.Completion.
func New(settings domain.Settings, deps Deps) (*Result, error) {
	cs := settings.Completion
	if !cs.IsConfigured() {
		return nil, fmt.Errorf("%w: provider %q is not configured. %s",
			domain.ErrCompletionUnavailable, cs.Provider, fixHint)
	}

	switch cs.Provider {
	case domain.CompletionSimulated:
		return &Result{Service: NewSimulated(cs.SimulatedDelay)}, nil

	case domain.CompletionAPI:
		client := deps.APIClient
		if client == nil {
			var err error
			client, err = api.NewFromSettings(settings.API)
			if err != nil {
				return nil, fmt.Errorf("%w: %w. %s", domain.ErrCompletionUnavailable, err, fixHint)
			}
		}
		return &Result{Service: api.NewCompletionService(client)}, nil

	default:
		llm, err := CreateLLMService(cs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w. %s", domain.ErrCompletionUnavailable, err, fixHint)
		}
		return &Result{
			Service: NewLLMCompletion(llm, deps.Prompts, deps.Documents),
			LLM:     llm,
		}, nil
	}
}

// CreateLLMService creates the LLM service for an LLM provider.
func CreateLLMService(cs domain.CompletionSettings) (driven.LLMService, error) {
	switch cs.Provider {
	case domain.CompletionOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cs.BaseURL,
			Model:   cs.Model,
		})

	case domain.CompletionOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cs.APIKey,
			BaseURL: cs.BaseURL,
			Model:   cs.Model,
		})

	case domain.CompletionAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cs.APIKey,
			BaseURL: cs.BaseURL,
			Model:   cs.Model,
		})

	default:
		return nil, fmt.Errorf("%w: %q is not an LLM provider", domain.ErrUnsupportedType, cs.Provider)
	}
}

// Validate checks that the configured provider is reachable. Simulated and
// api providers always pass: the API has no lightweight health check the
// client can rely on.
func Validate(ctx context.Context, cs domain.CompletionSettings) error {
	if !cs.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured", domain.ErrCompletionUnavailable, cs.Provider)
	}
	if !cs.Provider.IsLLM() {
		return nil
	}

	llm, err := CreateLLMService(cs)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCompletionUnavailable, err)
	}
	defer llm.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := llm.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrCompletionUnavailable, err, fixHint)
	}
	return nil
}
