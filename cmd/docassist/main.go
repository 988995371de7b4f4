// Command docassist chats with your documents from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docassist-cli/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func bootstrap(opts cli.Options) (*cli.Services, error) {
	a, err := app.New(app.Options{
		ConfigDir: opts.ConfigDir,
		Ephemeral: opts.Ephemeral,
	})
	if err != nil {
		return nil, fmt.Errorf("starting docassist: %w", err)
	}

	return &cli.Services{
		Documents:          a.Documents,
		Chat:               a.Chat,
		Selection:          a.Selection,
		Settings:           a.SettingsService,
		ValidateCompletion: a.ValidateCompletion,
		Close:              a.Close,
	}, nil
}
