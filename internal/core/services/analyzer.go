package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
	"github.com/tubelens/tubelens-cli/internal/logger"
)

// Ensure AnalyzerService implements the interface.
var _ driving.AnalyzerService = (*AnalyzerService)(nil)

// maxTranscriptChars caps how much transcript is sent to the LLM for
// analysis. Longer transcripts are truncated at this point; the full
// text is still stored and indexed.
const maxTranscriptChars = 80000

// analysisPrompt asks the model for the report fields as JSON.
const analysisPrompt = `Analyse this YouTube video transcript and produce a structured summary.

Video: %s
Channel: %s

Transcript:
%s

Respond with ONLY a JSON object, no markdown fences, with exactly these keys:
{
  "main_topics": ["..."],
  "key_points": ["..."],
  "important_facts": ["..."],
  "technical_details": ["..."],
  "examples_and_stories": ["..."],
  "important_segments": ["..."],
  "detailed_summary": "...",
  "overall_summary": "..."
}
Use empty arrays or strings for sections the transcript does not cover.`

// AnalyzerService fetches videos, summarises their transcripts into
// reports and hands both to the retrieval service for indexing.
type AnalyzerService struct {
	videos      driven.VideoProvider
	llm         driven.LLMService
	reports     driven.ReportStore
	transcripts driven.TranscriptStore
	retrieval   driving.RetrievalService
	maxVideos   int

	// now is swapped in tests for stable timestamps.
	now func() time.Time
}

// NewAnalyzerService creates a new analyzer service. maxVideos caps
// how many videos a channel analysis covers; zero uses 10.
func NewAnalyzerService(
	videos driven.VideoProvider,
	llm driven.LLMService,
	reports driven.ReportStore,
	transcripts driven.TranscriptStore,
	retrieval driving.RetrievalService,
	maxVideos int,
) *AnalyzerService {
	if maxVideos <= 0 {
		maxVideos = 10
	}
	return &AnalyzerService{
		videos:      videos,
		llm:         llm,
		reports:     reports,
		transcripts: transcripts,
		retrieval:   retrieval,
		maxVideos:   maxVideos,
		now:         time.Now,
	}
}

// AnalyzeVideo runs the full pipeline for one video: fetch metadata
// and transcript, generate the report, persist both, index both. The
// stores are authoritative; if indexing fails the report is still
// saved and a reindex will pick it up.
func (s *AnalyzerService) AnalyzeVideo(ctx context.Context, videoID string) (*domain.Report, error) {
	video, err := s.videos.VideoInfo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", videoID, err)
	}
	logger.Info("Analyzing %q (%s)", video.Title, video.ID)

	text, err := s.videos.Transcript(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching transcript %s: %w", videoID, err)
	}

	transcript := domain.Transcript{VideoID: video.ID, VideoTitle: video.Title, Text: text}
	if err := s.transcripts.Save(ctx, transcript); err != nil {
		return nil, fmt.Errorf("saving transcript %s: %w", videoID, err)
	}

	analysis, err := s.generateAnalysis(ctx, video, text)
	if err != nil {
		return nil, err
	}

	report := domain.Report{
		VideoID:      video.ID,
		VideoTitle:   video.Title,
		ChannelTitle: video.ChannelTitle,
		Analysis:     *analysis,
		GeneratedAt:  s.now(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("saving report %s: %w", videoID, err)
	}

	if err := s.retrieval.IndexReport(ctx, report); err != nil {
		logger.Warn("Indexing report %s failed, run reindex later: %v", videoID, err)
	}
	if err := s.retrieval.IndexTranscript(ctx, video.ID, video.Title, text); err != nil {
		logger.Warn("Indexing transcript %s failed, run reindex later: %v", videoID, err)
	}

	return &report, nil
}

// AnalyzeChannel resolves a channel by name and analyses its most
// recent videos. Per-video failures are recorded, not fatal.
func (s *AnalyzerService) AnalyzeChannel(ctx context.Context, channelName string, maxVideos int) (*driving.ChannelAnalysis, error) {
	if maxVideos <= 0 {
		maxVideos = s.maxVideos
	}

	runID := uuid.NewString()
	logger.Section("Channel Analysis")
	logger.Debug("Run %s: channel %q, up to %d videos", runID, channelName, maxVideos)

	channelID, err := s.videos.FindChannel(ctx, channelName)
	if err != nil {
		return nil, fmt.Errorf("resolving channel %q: %w", channelName, err)
	}

	channel, err := s.videos.ChannelInfo(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("fetching channel %s: %w", channelID, err)
	}

	videos, err := s.videos.RecentVideos(ctx, channelID, maxVideos)
	if err != nil {
		return nil, fmt.Errorf("listing videos for %s: %w", channelID, err)
	}

	result := &driving.ChannelAnalysis{
		Channel: *channel,
		Skipped: make(map[string]string),
	}
	for _, video := range videos {
		if video.IsShort() {
			result.Skipped[video.ID] = "short"
			continue
		}
		if _, err := s.AnalyzeVideo(ctx, video.ID); err != nil {
			logger.Warn("Run %s: skipping %s: %v", runID, video.ID, err)
			result.Skipped[video.ID] = err.Error()
			continue
		}
		result.Analyzed = append(result.Analyzed, video)
	}

	logger.Info("Run %s: analysed %d videos, skipped %d", runID, len(result.Analyzed), len(result.Skipped))
	return result, nil
}

// generateAnalysis asks the LLM for the structured report body.
func (s *AnalyzerService) generateAnalysis(ctx context.Context, video *domain.Video, transcript string) (*domain.Analysis, error) {
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[:maxTranscriptChars]
	}

	prompt := fmt.Sprintf(analysisPrompt, video.Title, video.ChannelTitle, transcript)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 4096})
	if err != nil {
		return nil, fmt.Errorf("generating analysis for %s: %w", video.ID, err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing analysis for %s: %w", video.ID, err)
	}
	return analysis, nil
}

// parseAnalysis extracts the JSON object from an LLM response,
// tolerating markdown fences and surrounding prose.
func parseAnalysis(raw string) (*domain.Analysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: response contains no JSON object", domain.ErrProvider)
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	return &analysis, nil
}
