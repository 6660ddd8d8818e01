package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Embedding cache commands",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the embedding cache",
	Long: `Removes all cached embeddings. The next indexing run will call the
embedding provider for every chunk again.`,
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	if err := retrievalService.ClearCache(cmd.Context()); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	cmd.Println("Embedding cache cleared.")
	return nil
}
