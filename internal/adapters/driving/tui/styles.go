package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderSources lists the grounding chunks under an answer, one video
// per line.
func renderSources(sources []domain.RetrievedChunk) string {
	seen := make(map[string]bool, len(sources))
	var lines []string
	for _, source := range sources {
		if seen[source.VideoID] {
			continue
		}
		seen[source.VideoID] = true
		lines = append(lines, fmt.Sprintf("  from %s (%s)", source.VideoTitle, source.VideoID))
	}
	return strings.Join(lines, "\n")
}
