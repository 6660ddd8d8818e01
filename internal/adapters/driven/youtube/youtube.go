// Package youtube provides the video provider adapter backed by the
// YouTube Data API v3 plus the public timedtext endpoint for
// transcripts.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.VideoProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// The Data API grants 10k quota units per day; searches cost 100
	// units each, so throttle well below the burst the API allows.
	requestsPerSecond = 4.0
	burstSize         = 8
)

// Config holds configuration for the YouTube provider.
type Config struct {
	// APIKey is the YouTube Data API key (required).
	APIKey string

	// TranscriptLanguage is the preferred caption language
	// (default: en).
	TranscriptLanguage string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Provider fetches channel and video data from YouTube.
type Provider struct {
	service     *youtubeapi.Service
	transcripts *transcriptClient
	limiter     *rate.Limiter
}

// NewProvider creates a YouTube provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube: API key is required")
	}
	if cfg.TranscriptLanguage == "" {
		cfg.TranscriptLanguage = "en"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	service, err := youtubeapi.NewService(ctx,
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("youtube: creating service: %w", err)
	}

	return &Provider{
		service:     service,
		transcripts: newTranscriptClient(httpClient, cfg.TranscriptLanguage),
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}, nil
}

// FindChannel resolves a channel name to its channel ID. It tries the
// handle lookup first (cheap), then falls back to search.
func (p *Provider) FindChannel(ctx context.Context, name string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	// Handles resolve exactly and cost 1 quota unit.
	byHandle, err := p.service.Channels.List([]string{"id"}).
		ForHandle(name).
		Context(ctx).
		Do()
	if err == nil && len(byHandle.Items) > 0 {
		return byHandle.Items[0].Id, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	search, err := p.service.Search.List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapAPIError("searching channel", err)
	}
	if len(search.Items) == 0 {
		return "", fmt.Errorf("channel %q: %w", name, domain.ErrNotFound)
	}
	return search.Items[0].Snippet.ChannelId, nil
}

// ChannelInfo fetches metadata for a channel ID.
func (p *Provider) ChannelInfo(ctx context.Context, channelID string) (*domain.Channel, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.service.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("fetching channel", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}

	item := resp.Items[0]
	channel := &domain.Channel{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if item.Statistics != nil {
		channel.SubscriberCount = item.Statistics.SubscriberCount
		channel.ViewCount = item.Statistics.ViewCount
		channel.VideoCount = item.Statistics.VideoCount
	}
	return channel, nil
}

// RecentVideos lists the channel's most recent videos, newest first.
// Shorts are filtered out, so more candidates than maxResults are
// fetched up front.
func (p *Provider) RecentVideos(ctx context.Context, channelID string, maxResults int) ([]domain.Video, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// Over-fetch to compensate for shorts being dropped below.
	fetch := int64(maxResults * 2)
	if fetch > 50 {
		fetch = 50
	}

	search, err := p.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(fetch).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("listing videos", err)
	}

	var ids []string
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []domain.Video{}, nil
	}

	videos, err := p.videosByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Video, 0, maxResults)
	for _, video := range videos {
		if video.IsShort() {
			continue
		}
		result = append(result, video)
		if len(result) == maxResults {
			break
		}
	}
	return result, nil
}

// VideoInfo fetches metadata for a single video ID.
func (p *Provider) VideoInfo(ctx context.Context, videoID string) (*domain.Video, error) {
	videos, err := p.videosByID(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, domain.ErrNotFound)
	}
	return &videos[0], nil
}

// videosByID resolves full metadata for a batch of video ids,
// preserving input order.
func (p *Provider) videosByID(ctx context.Context, ids []string) ([]domain.Video, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("fetching videos", err)
	}

	byID := make(map[string]domain.Video, len(resp.Items))
	for _, item := range resp.Items {
		video := domain.Video{
			ID:          item.Id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		}
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = t
		}
		if item.ContentDetails != nil {
			if d, err := parseISODuration(item.ContentDetails.Duration); err == nil {
				video.Duration = d
			}
		}
		if item.Statistics != nil {
			video.ViewCount = item.Statistics.ViewCount
		}
		byID[item.Id] = video
	}

	videos := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		if video, ok := byID[id]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

// Transcript fetches the transcript text for a video.
func (p *Provider) Transcript(ctx context.Context, videoID string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.transcripts.Fetch(ctx, videoID)
}

// wrapAPIError maps Data API failures onto the domain error set.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("youtube: %s: %w: %s", op, domain.ErrRateLimited, apiErr.Message)
		case apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("youtube: %s: %w", op, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("youtube: %s: %w: %v", op, domain.ErrProvider, err)
}
