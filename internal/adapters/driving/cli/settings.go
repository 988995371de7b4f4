package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the upload pipeline, the document-assistant API and
the completion provider.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider [name]",
	Short: "Set the completion provider",
	Long: `Set where assistant replies come from.

Available providers:
  simulated - Canned replies, no network (default)
  api       - The document-assistant API's chat endpoint
  ollama    - A local Ollama instance
  openai    - OpenAI (requires an API key)
  anthropic - Anthropic (requires an API key)`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: providerNames(),
	RunE:      runSettingsProvider,
}

var settingsUploadCmd = &cobra.Command{
	Use:   "upload-driver [simulated|backend]",
	Short: "Set how uploads are carried out",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUpload,
}

var settingsAPICmd = &cobra.Command{
	Use:   "api-url [url]",
	Short: "Set the document-assistant API base URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAPI,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the completion provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsProviderCmd.Flags().String("model", "", "Model name (LLM providers)")
	settingsProviderCmd.Flags().String("api-key", "", "API key (prompted when required and omitted)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsUploadCmd)
	settingsCmd.AddCommand(settingsAPICmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.API.Timeout)
	cmd.Printf("  Requests/second: %g\n", settings.API.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Upload]")
	cmd.Printf("  Driver: %s\n", settings.Upload.Driver.Description())
	if settings.Upload.Driver == domain.UploadDriverSimulated {
		cmd.Printf("  Steps: %d x %s\n", settings.Upload.Steps, settings.Upload.StepInterval)
		cmd.Printf("  Processing: %s\n", settings.Upload.ProcessingDelay)
	}
	cmd.Println()

	cmd.Println("[Completion]")
	cmd.Printf("  Provider: %s\n", settings.Completion.Provider.Description())
	if settings.Completion.Provider.IsLLM() {
		model := settings.Completion.Model
		if model == "" {
			model = domain.DefaultCompletionModels()[settings.Completion.Provider] + " (default)"
		}
		cmd.Printf("  Model: %s\n", model)
	}
	if settings.Completion.Provider.RequiresAPIKey() {
		if settings.Completion.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Completion.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docassist settings provider' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsProvider(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.CompletionProvider(strings.ToLower(args[0]))
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q (want one of %s)", args[0], strings.Join(providerNames(), ", "))
	}

	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return err
	}
	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return err
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetCompletionProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to set completion provider: %w", err)
	}
	cmd.Printf("Completion provider set to: %s\n", provider.Description())
	return nil
}

func runSettingsUpload(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	kind := domain.UploadDriverKind(strings.ToLower(args[0]))
	if err := settingsService.SetUploadDriver(kind); err != nil {
		return fmt.Errorf("failed to set upload driver: %w", err)
	}
	cmd.Printf("Upload driver set to: %s\n", kind.Description())
	return nil
}

func runSettingsAPI(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.API.BaseURL = strings.TrimSpace(args[0])
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("API base URL set to: %s\n", settings.API.BaseURL)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("settings are invalid: %w", err)
	}
	if validateCompletion != nil {
		cmd.Print("Validating completion provider... ")
		if err := validateCompletion(cmd.Context()); err != nil {
			cmd.Println("FAILED")
			return err
		}
		cmd.Println("OK")
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func providerNames() []string {
	providers := domain.AllCompletionProviders()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}
	return names
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(cmd *cobra.Command) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
