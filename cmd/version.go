package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are typically set during build time using ldflags
// Example: go build -ldflags "-X github.com/pb33f/dialpick/cmd.Version=1.0.0"
var (
	Version   = "dev"     // Version of the application
	GitCommit = "unknown" // Git commit hash
	BuildDate = "unknown" // Build date
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display detailed version information about the dialpick application.`,
	Args:  cobra.NoArgs,
	// version works without a valid configuration
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run:               runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, RenderBanner())
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
