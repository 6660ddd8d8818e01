package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many chunks are indexed",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index stats: %w", err)
	}

	if statsJSON {
		out := struct {
			Reports     int `json:"reports"`
			Transcripts int `json:"transcripts"`
			Total       int `json:"total"`
		}{stats.Reports, stats.Transcripts, stats.Total()}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Reports:     %d chunk(s)\n", stats.Reports)
	cmd.Printf("Transcripts: %d chunk(s)\n", stats.Transcripts)
	cmd.Printf("Total:       %d chunk(s)\n", stats.Total())
	return nil
}
