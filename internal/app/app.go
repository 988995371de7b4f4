package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/api"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/completion"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docassist-cli/internal/core/services"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Options controls how the application is assembled.
type Options struct {
	// ConfigDir holds config.toml and prompts/. Defaults to ~/.docassist.
	ConfigDir string

	// Ephemeral keeps settings in memory and ignores ConfigDir.
	Ephemeral bool

	// EnvFile is loaded before settings are read. Defaults to ./.env.
	EnvFile string

	// Getenv overrides os.Getenv, for tests.
	Getenv func(string) string
}

// App holds the wired services for one process.
type App struct {
	Settings        domain.Settings
	SettingsService *services.SettingsService
	Store           *services.DocumentStore
	Documents       *services.DocumentService
	History         *services.ChatHistory
	Selection       *services.SelectionCoordinator
	Chat            *services.ChatOrchestrator
	Prompts         driven.PromptStore

	completion *completion.Result
}

// New loads settings and wires every service.
func New(opts Options) (*App, error) {
	log := logger.For("app")

	if err := LoadEnvFile(opts.EnvFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var (
		configStore driven.ConfigStore
		prompts     driven.PromptStore
	)
	if opts.Ephemeral {
		configStore = memory.NewConfigStore()
	} else {
		dir := opts.ConfigDir
		if dir == "" {
			var err error
			if dir, err = file.DefaultDir(); err != nil {
				return nil, fmt.Errorf("resolve config dir: %w", err)
			}
		}
		fileStore, err := file.NewConfigStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		configStore = fileStore

		promptStore, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
		if err != nil {
			return nil, fmt.Errorf("open prompts: %w", err)
		}
		prompts = promptStore
	}

	settingsService := services.NewSettingsService(configStore)
	current, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings := *current
	ApplyEnv(&settings, opts.Getenv)
	log.Debug("upload driver %s, completion provider %s", settings.Upload.Driver, settings.Completion.Provider)

	var client *api.Client
	if settings.Upload.Driver == domain.UploadDriverBackend || settings.Completion.Provider == domain.CompletionAPI {
		if client, err = api.NewFromSettings(settings.API); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUploadBackendUnavailable, err)
		}
	}

	var seed []domain.Document
	if settings.Documents.SeedSamples {
		seed = domain.SampleDocuments()
	}
	store := services.NewDocumentStore(seed...)

	var backend driven.UploadBackend
	if client != nil {
		backend = api.NewUploadBackend(client)
	}
	driver, err := services.NewUploadDriver(settings.Upload, store, backend)
	if err != nil {
		return nil, fmt.Errorf("create upload driver: %w", err)
	}

	result, err := completion.New(settings, completion.Deps{
		APIClient: client,
		Prompts:   prompts,
		Documents: store,
	})
	if err != nil {
		return nil, err
	}

	history := services.NewChatHistory(settings.Chat.WelcomeMessage)
	if err := history.Initialize(); err != nil {
		result.Close()
		return nil, err
	}
	selection := services.NewSelectionCoordinator(history)

	return &App{
		Settings:        settings,
		SettingsService: settingsService,
		Store:           store,
		Documents:       services.NewDocumentService(store, driver),
		History:         history,
		Selection:       selection,
		Chat:            services.NewChatOrchestrator(history, selection, result.Service),
		Prompts:         prompts,
		completion:      result,
	}, nil
}

// ValidateCompletion checks that the configured completion provider responds.
func (a *App) ValidateCompletion(ctx context.Context) error {
	return completion.Validate(ctx, a.Settings.Completion)
}

// Close releases provider resources.
func (a *App) Close() {
	a.completion.Close()
}
