// Package cli provides the docassist command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// skipBootstrap marks commands that run without the application services.
const skipBootstrap = "skip-bootstrap"

// Services holds the driving ports the commands call into.
type Services struct {
	Documents driving.DocumentService
	Chat      driving.ChatService
	Selection driving.SelectionCoordinator
	Settings  driving.SettingsService

	// ValidateCompletion pings the configured completion provider. Optional.
	ValidateCompletion func(ctx context.Context) error

	// Close releases resources when the command finishes. Optional.
	Close func()
}

// Options are the global flags handed to the bootstrap function.
type Options struct {
	ConfigDir string
	Ephemeral bool
	Verbose   bool
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(Options) (*Services, error)

var (
	documentService      driving.DocumentService
	chatService          driving.ChatService
	selectionCoordinator driving.SelectionCoordinator
	settingsService      driving.SettingsService
	validateCompletion   func(ctx context.Context) error
	closeServices        func()

	bootstrap  Bootstrap
	globalOpts Options
)

var rootCmd = &cobra.Command{
	Use:   "docassist",
	Short: "Chat with your documents from the terminal",
	Long: `docassist keeps a list of uploaded documents and a conversation with an
assistant that answers using the documents you select.

Uploads are simulated locally by default. Point upload.driver and
completion.provider at the document-assistant API (or run 'docassist
mock-server') to exercise a real backend.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "Print diagnostic logs to stderr")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "Config directory (default ~/.docassist)")
	flags.BoolVar(&globalOpts.Ephemeral, "ephemeral", false, "Ignore stored settings and keep everything in memory")
}

// SetVersion sets the version reported by 'docassist version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	documentService = s.Documents
	chatService = s.Chat
	selectionCoordinator = s.Selection
	settingsService = s.Settings
	validateCompletion = s.ValidateCompletion
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			closeServices()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)

	if cmd.Annotations[skipBootstrap] == "true" || bootstrap == nil || chatService != nil {
		return nil
	}
	services, err := bootstrap(globalOpts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}
