package domain

import "time"

// Channel holds YouTube channel metadata.
type Channel struct {
	// ID is the YouTube channel ID.
	ID string

	// Title is the channel's display name.
	Title string

	// Description is the channel description.
	Description string

	// SubscriberCount is the published subscriber count.
	SubscriberCount uint64

	// ViewCount is the all-time view count.
	ViewCount uint64

	// VideoCount is the number of public videos.
	VideoCount uint64
}

// Video holds YouTube video metadata.
type Video struct {
	// ID is the YouTube video ID.
	ID string

	// Title is the video title.
	Title string

	// Description is the video description.
	Description string

	// ChannelID is the owning channel.
	ChannelID string

	// ChannelTitle is the owning channel's display name.
	ChannelTitle string

	// PublishedAt is the publication time.
	PublishedAt time.Time

	// Duration is the video length.
	Duration time.Duration

	// ViewCount is the view count at fetch time.
	ViewCount uint64
}

// IsShort reports whether the video is a YouTube Short. Shorts carry no
// transcript worth analysing and are skipped during channel analysis.
func (v Video) IsShort() bool {
	return v.Duration > 0 && v.Duration <= 60*time.Second
}
