package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
)

var (
	analyzeMaxVideos int
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse videos and channels",
	Long:  `Fetch transcripts, generate analysis reports and index them for retrieval.`,
}

var analyzeVideoCmd = &cobra.Command{
	Use:   "video [video-id]",
	Short: "Analyse a single video",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeVideo,
}

var analyzeChannelCmd = &cobra.Command{
	Use:   "channel [name]",
	Short: "Analyse a channel's recent videos",
	Long: `Resolves the channel by handle or name, fetches its most recent
long-form videos and analyses each one. Videos that fail (no captions,
provider errors) are skipped and reported at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeChannel,
}

func init() {
	analyzeChannelCmd.Flags().IntVarP(&analyzeMaxVideos, "max-videos", "n", 0, "number of recent videos to analyse (default from config)")
	analyzeVideoCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	analyzeCmd.AddCommand(analyzeVideoCmd)
	analyzeCmd.AddCommand(analyzeChannelCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeVideo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureAnalyzer(ctx); err != nil {
		return err
	}

	report, err := analyzerService.AnalyzeVideo(ctx, args[0])
	if err != nil {
		return fmt.Errorf("analyzing video: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printReport(cmd, report)
	return nil
}

func runAnalyzeChannel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureAnalyzer(ctx); err != nil {
		return err
	}

	analysis, err := analyzerService.AnalyzeChannel(ctx, args[0], analyzeMaxVideos)
	if err != nil {
		return fmt.Errorf("analyzing channel: %w", err)
	}

	printChannelAnalysis(cmd, analysis)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.Report) {
	cmd.Printf("%s (%s)\n\n", report.VideoTitle, report.VideoID)
	if report.Analysis.OverallSummary != "" {
		cmd.Println(report.Analysis.OverallSummary)
		cmd.Println()
	}
	if len(report.Analysis.MainTopics) > 0 {
		cmd.Println("Topics:")
		for _, topic := range report.Analysis.MainTopics {
			cmd.Printf("  - %s\n", topic)
		}
		cmd.Println()
	}
	if len(report.Analysis.KeyPoints) > 0 {
		cmd.Println("Key points:")
		for _, point := range report.Analysis.KeyPoints {
			cmd.Printf("  - %s\n", point)
		}
	}
}

func printChannelAnalysis(cmd *cobra.Command, analysis *driving.ChannelAnalysis) {
	cmd.Printf("Channel: %s\n", analysis.Channel.Title)
	cmd.Printf("Analysed %d video(s), skipped %d\n\n", len(analysis.Analyzed), len(analysis.Skipped))

	for _, video := range analysis.Analyzed {
		cmd.Printf("  ✓ %s (%s)\n", video.Title, video.ID)
	}

	if len(analysis.Skipped) > 0 {
		cmd.Println()
		ids := make([]string, 0, len(analysis.Skipped))
		for id := range analysis.Skipped {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cmd.Printf("  ✗ %s: %s\n", id, analysis.Skipped[id])
		}
	}
}
