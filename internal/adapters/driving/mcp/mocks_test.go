package mcp

import (
	"context"
	"fmt"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.RetrievedChunk
	stats   domain.IndexStats
	err     error
}

func (m *mockRetrievalService) IndexReport(context.Context, domain.Report) error { return m.err }

func (m *mockRetrievalService) IndexTranscript(context.Context, string, string, string) error {
	return m.err
}

func (m *mockRetrievalService) Retrieve(
	context.Context, string, domain.RetrieveOptions,
) ([]domain.RetrievedChunk, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) RemoveSource(context.Context, domain.Collection, string) error {
	return m.err
}

func (m *mockRetrievalService) ReindexAll(context.Context) (driving.ReindexSummary, error) {
	return driving.ReindexSummary{}, m.err
}

func (m *mockRetrievalService) Stats(context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockRetrievalService) ClearCache(context.Context) error { return m.err }

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	answer *driving.Answer
	err    error

	question string
	videoIDs []string
}

func (m *mockQAService) Ask(
	_ context.Context, question string, _ []driven.ChatMessage, videoIDs []string,
) (*driving.Answer, error) {
	m.question = question
	m.videoIDs = videoIDs
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockReportStore is a map-backed driven.ReportStore.
type mockReportStore struct {
	reports map[string]domain.Report
	err     error
}

func (m *mockReportStore) Save(_ context.Context, report domain.Report) error {
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

func (m *mockReportStore) List(context.Context) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]domain.Report, 0, len(m.reports))
	for _, report := range m.reports {
		result = append(result, report)
	}
	return result, nil
}

func (m *mockReportStore) Delete(_ context.Context, videoID string) error {
	delete(m.reports, videoID)
	return nil
}

// mockTranscriptStore is a map-backed driven.TranscriptStore.
type mockTranscriptStore struct {
	transcripts map[string]domain.Transcript
}

func (m *mockTranscriptStore) Save(_ context.Context, transcript domain.Transcript) error {
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

func (m *mockTranscriptStore) List(context.Context) ([]domain.Transcript, error) {
	result := make([]domain.Transcript, 0, len(m.transcripts))
	for _, transcript := range m.transcripts {
		result = append(result, transcript)
	}
	return result, nil
}

func (m *mockTranscriptStore) Delete(_ context.Context, videoID string) error {
	delete(m.transcripts, videoID)
	return nil
}
