package cli

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens-cli/internal/adapters/driving/tui"
)

var (
	askVideos      []string
	askJSON        bool
	askSources     bool
	askInteractive bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about analysed videos",
	Long: `Answers a question using the indexed reports and transcripts.

With --interactive, opens a chat session that keeps conversation
context between questions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVar(&askVideos, "videos", nil, "restrict the answer to these video ids")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show the chunks the answer was grounded on")
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "open an interactive chat session")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	if askInteractive {
		return runChat(cmd)
	}

	if len(args) == 0 {
		return fmt.Errorf("provide a question or use --interactive")
	}

	answer, err := qaService.Ask(cmd.Context(), args[0], nil, askVideos)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		out := struct {
			Answer  string   `json:"answer"`
			Sources []string `json:"sources"`
		}{Answer: answer.Text}
		for _, source := range answer.Sources {
			out.Sources = append(out.Sources, fmt.Sprintf("%s [%s #%d]", source.VideoID, source.SourceType, source.Index))
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if askSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range answer.Sources {
			cmd.Printf("  %s — %s (%s chunk %d, distance %.3f)\n",
				source.VideoID, source.VideoTitle, source.SourceType, source.Index, source.Distance)
		}
	}
	return nil
}

func runChat(cmd *cobra.Command) error {
	model := tui.NewChat(qaService, askVideos)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}
