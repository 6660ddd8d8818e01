package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	filestore "github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/file"
	"github.com/tubelens/tubelens-cli/internal/adapters/driving/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index in sync with the data directory",
	Long: `Watches the data directory and indexes reports and transcripts as
they appear, and removes them from the index when their files are
deleted. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	store, ok := reportStore.(*filestore.ReportStore)
	if !ok {
		return fmt.Errorf("watching requires file-backed storage")
	}

	cmd.Printf("Watching %s\n", store.Dir())
	w := watcher.New(store.Dir(), retrievalService, reportStore, transcriptStore)
	return w.Run(cmd.Context())
}
