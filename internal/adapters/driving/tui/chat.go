// Package tui implements the interactive chat session over analysed
// videos.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
)

// answerMsg delivers a completed answer to the update loop.
type answerMsg struct {
	question string
	answer   *driving.Answer
}

// errMsg delivers a failed question to the update loop.
type errMsg struct {
	err error
}

// Model is the Bubble Tea model for the chat session. Conversation
// history is carried across questions so follow-ups work.
type Model struct {
	qa       driving.QAService
	videoIDs []string

	input    textinput.Model
	viewport viewport.Model
	history  []driven.ChatMessage
	lines    []string
	waiting  bool
	ready    bool
}

// NewChat creates a chat session model. videoIDs optionally restricts
// answers to specific videos.
func NewChat(qa driving.QAService, videoIDs []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the analysed videos"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		qa:       qa,
		videoIDs: videoIDs,
		input:    ti,
		viewport: vp,
		lines:    []string{helpLine},
	}
}

const helpLine = "Enter sends a question, Ctrl+C quits."

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and answer results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + ih + 2 // header, input frame, status + spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.lines = append(m.lines, "", userStyle.Render("You: ")+question)
			m.refreshViewport()
			return m, m.ask(question)
		}

	case answerMsg:
		m.waiting = false
		m.history = msg.answer.History
		m.lines = append(m.lines, "", assistantStyle.Render("Tubelens: ")+msg.answer.Text)
		if len(msg.answer.Sources) > 0 {
			m.lines = append(m.lines, sourceStyle.Render(renderSources(msg.answer.Sources)))
		}
		m.refreshViewport()
		return m, nil

	case errMsg:
		m.waiting = false
		m.lines = append(m.lines, "", errorStyle.Render("Error: "+msg.err.Error()))
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Tubelens chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.statusLine())
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) statusLine() string {
	if m.waiting {
		return "Thinking..."
	}
	if len(m.videoIDs) > 0 {
		return "Restricted to: " + strings.Join(m.videoIDs, ", ")
	}
	return "Ready."
}

// ask runs the question off the update loop and reports back as a
// message.
func (m Model) ask(question string) tea.Cmd {
	qa := m.qa
	history := m.history
	videoIDs := m.videoIDs
	return func() tea.Msg {
		answer, err := qa.Ask(context.Background(), question, history, videoIDs)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{question: question, answer: answer}
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
