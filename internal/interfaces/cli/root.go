// Package cli is the command-line surface: analyze (stdin JSON to stdout
// JSON), serve (HTTP mode), and version.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// errAnalysisFailed signals a completed analysis with success=false. The
// response JSON has already been written; only the exit code changes.
var errAnalysisFailed = stderrors.New("analysis failed")

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "soiladvisor",
		Short: "Soil report analysis and crop advisory for Maharashtra farmers",
		Long: "soiladvisor turns raw soil lab report text into categorized soil profiles,\n" +
			"season-aware crop recommendations, and farmer-friendly explanations.\n" +
			"Measured values are categorized deterministically; AI output never\n" +
			"overrides a measured fact.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newAnalyzeCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code. Analysis failures
// exit 1 silently; the response JSON on stdout is the error report.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !stderrors.Is(err, errAnalysisFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
