package driven

import (
	"context"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// VideoProvider fetches channel and video metadata plus transcripts
// from YouTube.
type VideoProvider interface {
	// FindChannel resolves a channel name to its channel ID.
	// Returns domain.ErrNotFound when no channel matches.
	FindChannel(ctx context.Context, name string) (string, error)

	// ChannelInfo fetches metadata for a channel ID.
	ChannelInfo(ctx context.Context, channelID string) (*domain.Channel, error)

	// RecentVideos lists the channel's most recent videos, newest
	// first, shorts excluded.
	RecentVideos(ctx context.Context, channelID string, maxResults int) ([]domain.Video, error)

	// VideoInfo fetches metadata for a single video ID.
	VideoInfo(ctx context.Context, videoID string) (*domain.Video, error)

	// Transcript fetches the transcript text for a video.
	// Returns domain.ErrNoTranscript when the video has no caption track.
	Transcript(ctx context.Context, videoID string) (string, error)
}
