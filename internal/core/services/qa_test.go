package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

func newQAFixture(t *testing.T) (*QAService, *retrievalFixture, *mockLLM) {
	t.Helper()
	f := newRetrievalFixture(t)
	llm := &mockLLM{chatResult: "the video covers goroutines"}
	return NewQAService(f.service, llm, 5), f, llm
}

func TestAsk_AnswersWithContext(t *testing.T) {
	qa, f, llm := newQAFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexTranscript(ctx, "v1", "Concurrency Talk",
		"goroutines are cheap stackful coroutines"))

	answer, err := qa.Ask(ctx, "what are goroutines?", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "the video covers goroutines", answer.Text)
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "v1", answer.Sources[0].VideoID)

	// The model saw the system prompt, then the context-bearing
	// question.
	require.Len(t, llm.chats, 1)
	sent := llm.chats[0]
	require.Len(t, sent, 2)
	assert.Equal(t, "system", sent[0].Role)
	assert.Contains(t, sent[1].Content, "Transcript excerpts:")
	assert.Contains(t, sent[1].Content, "goroutines are cheap")
	assert.Contains(t, sent[1].Content, "Question: what are goroutines?")
}

func TestAsk_GroupsContextByVideo(t *testing.T) {
	qa, f, llm := newQAFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexReport(ctx, retrievalReport("v1")))
	require.NoError(t, f.service.IndexTranscript(ctx, "v1", "Understanding Goroutines", "transcript for v1"))

	_, err := qa.Ask(ctx, "summarise", nil, nil)
	require.NoError(t, err)

	prompt := llm.chats[0][len(llm.chats[0])-1].Content
	assert.Contains(t, prompt, "## Understanding Goroutines (v1)")
	assert.Contains(t, prompt, "Report analysis:")
	assert.Contains(t, prompt, "Transcript excerpts:")
}

func TestAsk_AppendsHistory(t *testing.T) {
	qa, _, _ := newQAFixture(t)

	history := []driven.ChatMessage{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	answer, err := qa.Ask(context.Background(), "follow-up", history, nil)
	require.NoError(t, err)

	require.Len(t, answer.History, 4)
	assert.Equal(t, "earlier question", answer.History[0].Content)
	assert.Equal(t, "follow-up", answer.History[2].Content)
	assert.Equal(t, answer.Text, answer.History[3].Content)

	// The caller's slice is not mutated.
	assert.Len(t, history, 2)
}

func TestAsk_TrimsLongHistory(t *testing.T) {
	qa, _, llm := newQAFixture(t)

	history := make([]driven.ChatMessage, 30)
	for i := range history {
		history[i] = driven.ChatMessage{Role: "user", Content: "old"}
	}

	_, err := qa.Ask(context.Background(), "question", history, nil)
	require.NoError(t, err)

	// system + trimmed history + question
	assert.Len(t, llm.chats[0], 1+maxHistoryMessages+1)
}

func TestAsk_RestrictsToVideos(t *testing.T) {
	qa, f, _ := newQAFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexTranscript(ctx, "v1", "T1", "transcript one"))
	require.NoError(t, f.service.IndexTranscript(ctx, "v2", "T2", "transcript two"))

	answer, err := qa.Ask(ctx, "question", nil, []string{"v2"})
	require.NoError(t, err)

	require.NotEmpty(t, answer.Sources)
	for _, source := range answer.Sources {
		assert.Equal(t, "v2", source.VideoID)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	qa, _, _ := newQAFixture(t)

	_, err := qa.Ask(context.Background(), "   ", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoContextStillAnswers(t *testing.T) {
	qa, _, llm := newQAFixture(t)

	answer, err := qa.Ask(context.Background(), "anything indexed?", nil, nil)
	require.NoError(t, err)

	assert.Empty(t, answer.Sources)
	prompt := llm.chats[0][len(llm.chats[0])-1].Content
	assert.Contains(t, prompt, "No indexed material matched")
}

func TestAsk_RetrievalErrorPropagates(t *testing.T) {
	qa, f, _ := newQAFixture(t)
	f.embedder.embedErr = errors.New("embedding service down")

	_, err := qa.Ask(context.Background(), "question", nil, nil)
	assert.ErrorIs(t, err, f.embedder.embedErr)
}

func TestAsk_LLMErrorPropagates(t *testing.T) {
	qa, _, llm := newQAFixture(t)
	llm.chatErr = errors.New("model overloaded")

	_, err := qa.Ask(context.Background(), "question", nil, nil)
	assert.ErrorIs(t, err, llm.chatErr)
}
