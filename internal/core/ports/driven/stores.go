package driven

import (
	"context"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// ReportStore persists analysis reports. It is the authoritative record
// the vector index can always be rebuilt from.
type ReportStore interface {
	// Save stores or replaces the report for its video id.
	Save(ctx context.Context, report domain.Report) error

	// Get retrieves the report for a video.
	// Returns domain.ErrNotFound if no report exists.
	Get(ctx context.Context, videoID string) (*domain.Report, error)

	// List enumerates every persisted report.
	List(ctx context.Context) ([]domain.Report, error)

	// Delete removes the report for a video. Unknown ids are a no-op.
	Delete(ctx context.Context, videoID string) error
}

// TranscriptStore persists raw transcripts alongside reports.
type TranscriptStore interface {
	// Save stores or replaces the transcript for its video id.
	Save(ctx context.Context, transcript domain.Transcript) error

	// Get retrieves the transcript for a video.
	// Returns domain.ErrNotFound if no transcript exists.
	Get(ctx context.Context, videoID string) (*domain.Transcript, error)

	// List enumerates every persisted transcript.
	List(ctx context.Context) ([]domain.Transcript, error)

	// Delete removes the transcript for a video. Unknown ids are a no-op.
	Delete(ctx context.Context, videoID string) error
}
