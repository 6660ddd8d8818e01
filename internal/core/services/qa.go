package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
	"github.com/tubelens/tubelens-cli/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// qaSystemPrompt frames every answer around the retrieved material.
const qaSystemPrompt = `You are an assistant answering questions about YouTube videos that have been analysed.
Base your answers on the provided context from video reports and transcripts.
When the context does not contain the answer, say so instead of guessing.
Mention which video a statement comes from when several videos are involved.`

// maxHistoryMessages bounds how much prior conversation is replayed
// to the model.
const maxHistoryMessages = 20

// QAService answers questions about analysed videos using retrieved
// context.
type QAService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	results   int
}

// NewQAService creates a new question answering service. results is
// the number of chunks retrieved per question; zero uses the default.
func NewQAService(retrieval driving.RetrievalService, llm driven.LLMService, results int) *QAService {
	if results <= 0 {
		results = domain.DefaultRetrieveLimit
	}
	return &QAService{
		retrieval: retrieval,
		llm:       llm,
		results:   results,
	}
}

// Ask answers a question using retrieved chunks as context. history
// carries the prior conversation turns; the returned Answer includes
// the updated history for the next call. videoIDs, when non-empty,
// restricts retrieval to those videos.
func (s *QAService) Ask(
	ctx context.Context, question string, history []driven.ChatMessage, videoIDs []string,
) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	opts := domain.DefaultRetrieveOptions(s.results)
	opts.VideoIDs = videoIDs

	sources, err := s.retrieval.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}
	logger.Debug("Answering with %d context chunks", len(sources))

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: qaSystemPrompt})

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	messages = append(messages, history...)

	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: buildQuestionPrompt(question, sources),
	})

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: 2048})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	updated := append(append([]driven.ChatMessage{}, history...),
		driven.ChatMessage{Role: "user", Content: question},
		driven.ChatMessage{Role: "assistant", Content: answer},
	)

	return &driving.Answer{
		Text:    answer,
		Sources: sources,
		History: updated,
	}, nil
}

// buildQuestionPrompt renders the retrieved chunks grouped by video,
// report material before transcript excerpts, and appends the
// question.
func buildQuestionPrompt(question string, sources []domain.RetrievedChunk) string {
	if len(sources) == 0 {
		return fmt.Sprintf("No indexed material matched this question.\n\nQuestion: %s", question)
	}

	type videoGroup struct {
		title       string
		reports     []string
		transcripts []string
	}

	groups := make(map[string]*videoGroup)
	var order []string
	for _, source := range sources {
		group, ok := groups[source.VideoID]
		if !ok {
			group = &videoGroup{title: source.VideoTitle}
			groups[source.VideoID] = group
			order = append(order, source.VideoID)
		}
		switch source.SourceType {
		case domain.SourceReport:
			group.reports = append(group.reports, source.Text)
		case domain.SourceTranscript:
			group.transcripts = append(group.transcripts, source.Text)
		}
	}
	sort.Strings(order)

	var b strings.Builder
	b.WriteString("Context from analysed videos:\n")
	for _, videoID := range order {
		group := groups[videoID]
		title := group.title
		if title == "" {
			title = videoID
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n", title, videoID)
		if len(group.reports) > 0 {
			b.WriteString("Report analysis:\n")
			for _, text := range group.reports {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		if len(group.transcripts) > 0 {
			b.WriteString("Transcript excerpts:\n")
			for _, text := range group.transcripts {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String()
}
