package services

import (
	"context"
	"fmt"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedder implements driven.EmbeddingService with fixed vectors
// per text. Texts without an assigned vector get a default unit
// vector.
type mockEmbedder struct {
	vectors    map[string][]float32
	embedErr   error
	batchCalls int
	batchTexts []string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) assign(text string, vector []float32) {
	m.vectors[text] = vector
}

func (m *mockEmbedder) vecFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		m.batchTexts = append(m.batchTexts, text)
		result[i] = m.vecFor(text)
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int            { return 3 }
func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockReportStore implements driven.ReportStore in memory.
type mockReportStore struct {
	reports map[string]domain.Report
	order   []string
	listErr error
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{reports: make(map[string]domain.Report)}
}

func (m *mockReportStore) Save(_ context.Context, report domain.Report) error {
	if _, ok := m.reports[report.VideoID]; !ok {
		m.order = append(m.order, report.VideoID)
	}
	m.reports[report.VideoID] = report
	return nil
}

func (m *mockReportStore) Get(_ context.Context, videoID string) (*domain.Report, error) {
	report, ok := m.reports[videoID]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", videoID, domain.ErrNotFound)
	}
	return &report, nil
}

func (m *mockReportStore) List(_ context.Context) ([]domain.Report, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]domain.Report, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.reports[id])
	}
	return result, nil
}

func (m *mockReportStore) Delete(_ context.Context, videoID string) error {
	delete(m.reports, videoID)
	for i, id := range m.order {
		if id == videoID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// mockTranscriptStore implements driven.TranscriptStore in memory.
type mockTranscriptStore struct {
	transcripts map[string]domain.Transcript
	order       []string
	listErr     error
}

func newMockTranscriptStore() *mockTranscriptStore {
	return &mockTranscriptStore{transcripts: make(map[string]domain.Transcript)}
}

func (m *mockTranscriptStore) Save(_ context.Context, transcript domain.Transcript) error {
	if _, ok := m.transcripts[transcript.VideoID]; !ok {
		m.order = append(m.order, transcript.VideoID)
	}
	m.transcripts[transcript.VideoID] = transcript
	return nil
}

func (m *mockTranscriptStore) Get(_ context.Context, videoID string) (*domain.Transcript, error) {
	transcript, ok := m.transcripts[videoID]
	if !ok {
		return nil, fmt.Errorf("transcript %s: %w", videoID, domain.ErrNotFound)
	}
	return &transcript, nil
}

func (m *mockTranscriptStore) List(_ context.Context) ([]domain.Transcript, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]domain.Transcript, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.transcripts[id])
	}
	return result, nil
}

func (m *mockTranscriptStore) Delete(_ context.Context, videoID string) error {
	delete(m.transcripts, videoID)
	for i, id := range m.order {
		if id == videoID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// mockLLM implements driven.LLMService with canned responses.
type mockLLM struct {
	generateResult string
	generateErr    error
	chatResult     string
	chatErr        error
	prompts        []string
	chats          [][]driven.ChatMessage
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.generateResult, nil
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.chats = append(m.chats, messages)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResult, nil
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// mockVideoProvider implements driven.VideoProvider with canned data.
type mockVideoProvider struct {
	channelID     string
	channel       *domain.Channel
	videos        []domain.Video
	transcripts   map[string]string
	findErr       error
	transcriptErr error
}

func (m *mockVideoProvider) FindChannel(_ context.Context, name string) (string, error) {
	if m.findErr != nil {
		return "", m.findErr
	}
	if m.channelID == "" {
		return "", fmt.Errorf("channel %q: %w", name, domain.ErrNotFound)
	}
	return m.channelID, nil
}

func (m *mockVideoProvider) ChannelInfo(_ context.Context, channelID string) (*domain.Channel, error) {
	if m.channel == nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}
	return m.channel, nil
}

func (m *mockVideoProvider) RecentVideos(_ context.Context, _ string, maxResults int) ([]domain.Video, error) {
	if maxResults < len(m.videos) {
		return m.videos[:maxResults], nil
	}
	return m.videos, nil
}

func (m *mockVideoProvider) VideoInfo(_ context.Context, videoID string) (*domain.Video, error) {
	for _, video := range m.videos {
		if video.ID == videoID {
			return &video, nil
		}
	}
	return nil, fmt.Errorf("video %s: %w", videoID, domain.ErrNotFound)
}

func (m *mockVideoProvider) Transcript(_ context.Context, videoID string) (string, error) {
	if m.transcriptErr != nil {
		return "", m.transcriptErr
	}
	text, ok := m.transcripts[videoID]
	if !ok {
		return "", fmt.Errorf("video %s: %w", videoID, domain.ErrNoTranscript)
	}
	return text, nil
}
