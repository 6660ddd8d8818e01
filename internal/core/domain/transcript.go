package domain

import (
	"fmt"
	"strings"
)

// Transcript is the raw transcript of a video as fetched from YouTube.
type Transcript struct {
	// VideoID is the YouTube video ID.
	VideoID string

	// VideoTitle is the video title, carried for result presentation.
	VideoTitle string

	// Text is the full transcript text.
	Text string
}

// Validate checks the transcript can be indexed.
func (t Transcript) Validate() error {
	if strings.TrimSpace(t.VideoID) == "" {
		return fmt.Errorf("%w: transcript has no video id", ErrInvalidInput)
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: transcript %s is empty", ErrInvalidInput, t.VideoID)
	}
	return nil
}
