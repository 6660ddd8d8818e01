package driving

import (
	"context"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// ChannelAnalysis summarises an analyze run over a channel.
type ChannelAnalysis struct {
	// Channel is the analysed channel's metadata.
	Channel domain.Channel

	// Analyzed lists the videos that produced a report.
	Analyzed []domain.Video

	// Skipped lists video ids that failed (no transcript, LLM error)
	// together with the reason.
	Skipped map[string]string
}

// AnalyzerService drives the fetch → summarise → persist → index
// pipeline for videos and channels.
type AnalyzerService interface {
	// AnalyzeVideo fetches metadata and transcript for one video,
	// generates a report with the LLM, persists both and indexes them.
	AnalyzeVideo(ctx context.Context, videoID string) (*domain.Report, error)

	// AnalyzeChannel resolves the channel by name, analyses its most
	// recent videos and returns a per-video outcome. Individual video
	// failures are skipped, not fatal.
	AnalyzeChannel(ctx context.Context, channelName string, maxVideos int) (*ChannelAnalysis, error)
}
