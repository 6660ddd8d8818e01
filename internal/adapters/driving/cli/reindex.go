package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector index from stored reports and transcripts",
	Long: `Clears both index collections and re-chunks, re-embeds and re-indexes
every stored report and transcript. Cached embeddings are reused, so a
reindex after a corrupted or deleted index is cheap.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	summary, err := retrievalService.ReindexAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}

	cmd.Printf("Reindexed %d report(s) and %d transcript(s)\n", summary.Reports, summary.Transcripts)
	if len(summary.Failed) > 0 {
		cmd.Printf("Skipped %d item(s):\n", len(summary.Failed))
		for _, item := range summary.Failed {
			cmd.Printf("  - %s\n", item)
		}
	}
	return nil
}
