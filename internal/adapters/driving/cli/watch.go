package cli

import (
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files as they appear in a directory",
	Long: `Watch a directory and upload every new file dropped into it.

Hidden files and subdirectories are ignored. A file is uploaded once it
has stopped changing for the settle period. Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "Wait this long after the last write before uploading")
	watchCmd.Flags().Bool("existing", false, "Also upload files already in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	settle, err := cmd.Flags().GetDuration("settle")
	if err != nil {
		return err
	}
	existing, err := cmd.Flags().GetBool("existing")
	if err != nil {
		return err
	}

	// Callbacks run on upload goroutines.
	var mu sync.Mutex
	w, err := watch.New(args[0], documentService, watch.Config{
		Settle:          settle,
		IncludeExisting: existing,
		OnStarted: func(doc domain.Document) {
			mu.Lock()
			defer mu.Unlock()
			cmd.Printf("Uploading %s (%s)\n", doc.Name, doc.ID)
		},
		OnFinished: func(doc domain.Document) {
			mu.Lock()
			defer mu.Unlock()
			cmd.Printf("%s: %s\n", doc.Name, statusText(doc))
		},
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	return w.Run(cmd.Context())
}
