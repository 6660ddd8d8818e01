package cli

import (
	"context"
	"time"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
)

// setupTestServices injects mock services into the package-level vars
// and returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldRetrieval := retrievalService
	oldQA := qaService
	oldAnalyzer := analyzerService

	retrievalService = &mockRetrievalService{
		stats: domain.IndexStats{Reports: 4, Transcripts: 9},
		summary: driving.ReindexSummary{
			Reports:     2,
			Transcripts: 2,
		},
	}
	qaService = &mockQAService{
		answer: &driving.Answer{
			Text: "They mostly talked about build tooling.",
			Sources: []domain.RetrievedChunk{{
				Chunk: domain.Chunk{
					VideoID:    "v1",
					VideoTitle: "Build tooling deep dive",
					SourceType: domain.SourceReport,
					Text:       "the discussion of build tooling",
				},
				Distance: 0.21,
			}},
		},
	}
	analyzerService = &mockAnalyzerService{
		report: &domain.Report{
			VideoID:    "v1",
			VideoTitle: "Build tooling deep dive",
			Analysis: domain.Analysis{
				OverallSummary: "A tour of build tooling.",
				MainTopics:     []string{"build systems"},
				KeyPoints:      []string{"cache your dependencies"},
			},
			GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		channel: &driving.ChannelAnalysis{
			Channel:  domain.Channel{ID: "c1", Title: "Some Channel"},
			Analyzed: []domain.Video{{ID: "v1", Title: "Build tooling deep dive"}},
			Skipped:  map[string]string{"v2": "no transcript available"},
		},
	}

	return func() {
		retrievalService = oldRetrieval
		qaService = oldQA
		analyzerService = oldAnalyzer
	}
}

type mockRetrievalService struct {
	results []domain.RetrievedChunk
	stats   domain.IndexStats
	summary driving.ReindexSummary
	err     error

	cacheCleared bool
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
	return m.summary, m.err
}

func (m *mockRetrievalService) Stats(context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockRetrievalService) ClearCache(context.Context) error {
	m.cacheCleared = true
	return m.err
}

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

type mockAnalyzerService struct {
	report  *domain.Report
	channel *driving.ChannelAnalysis
	err     error

	maxVideos int
}

func (m *mockAnalyzerService) AnalyzeVideo(_ context.Context, _ string) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockAnalyzerService) AnalyzeChannel(
	_ context.Context, _ string, maxVideos int,
) (*driving.ChannelAnalysis, error) {
	m.maxVideos = maxVideos
	if m.err != nil {
		return nil, m.err
	}
	return m.channel, nil
}
