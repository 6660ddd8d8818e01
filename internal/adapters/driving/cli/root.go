// Package cli implements the tubelens command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "tubelens",
	Short: "Analyse YouTube videos and ask questions about them",
	Long: `Tubelens fetches transcripts of YouTube videos, analyses them with
an LLM and indexes the results for semantic retrieval, so you can ask
questions about what a channel has been talking about.

Typical workflow:
  tubelens config set youtube.api_key     # one-time setup
  tubelens analyze channel @somechannel   # build reports
  tubelens ask "what did they say about deployments?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.tubelens/config.toml)")
}

// Execute runs the root command and releases whatever the invoked
// command wired up.
func Execute() error {
	defer closeApp() //nolint:errcheck // close failures do not change the outcome
	return rootCmd.Execute()
}
