package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE:        runVersion,
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}

// runVersion prints the build version. It runs without services so it works
// even when the config directory is unreadable.
func runVersion(cmd *cobra.Command, _ []string) error {
	short, err := cmd.Flags().GetBool("short")
	if err != nil {
		return err
	}
	if short {
		cmd.Println(version)
		return nil
	}
	cmd.Printf("docassist version %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
