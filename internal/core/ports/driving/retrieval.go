package driving

import (
	"context"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// ReindexSummary reports the outcome of a full reindex.
type ReindexSummary struct {
	// Reports is the number of reports indexed.
	Reports int

	// Transcripts is the number of transcripts indexed.
	Transcripts int

	// Failed lists video ids whose indexing failed and was skipped.
	Failed []string
}

// RetrievalService is the only component application code calls to
// index analysed content and to fetch semantically relevant chunks.
type RetrievalService interface {
	// IndexReport chunks, embeds and indexes a report into the reports
	// collection, replacing any prior chunks for its video id. A
	// provider failure leaves the index untouched for that video.
	IndexReport(ctx context.Context, report domain.Report) error

	// IndexTranscript runs the same pipeline into the transcripts
	// collection.
	IndexTranscript(ctx context.Context, videoID, videoTitle, text string) error

	// Retrieve embeds the query and returns the chunks nearest to it
	// across the requested collections, sorted ascending by distance.
	// Nothing indexed yields an empty result, not an error; a provider
	// failure is returned as an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.RetrievedChunk, error)

	// RemoveSource drops a video's chunks from one collection.
	RemoveSource(ctx context.Context, collection domain.Collection, videoID string) error

	// ReindexAll clears both collections and rebuilds them from the
	// persisted report and transcript stores. Per-item failures are
	// recorded in the summary and skipped, not fatal.
	ReindexAll(ctx context.Context) (ReindexSummary, error)

	// Stats returns chunk counts per collection.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// ClearCache empties the embedding cache.
	ClearCache(ctx context.Context) error
}
