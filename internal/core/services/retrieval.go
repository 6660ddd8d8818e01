package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
	"github.com/tubelens/tubelens-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService indexes reports and transcripts into the vector
// index and answers similarity queries across both collections.
type RetrievalService struct {
	splitter    driven.TextSplitter
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	cache       driven.EmbeddingCache
	reports     driven.ReportStore
	transcripts driven.TranscriptStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	splitter driven.TextSplitter,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	cache driven.EmbeddingCache,
	reports driven.ReportStore,
	transcripts driven.TranscriptStore,
) *RetrievalService {
	return &RetrievalService{
		splitter:    splitter,
		embedder:    embedder,
		index:       index,
		cache:       cache,
		reports:     reports,
		transcripts: transcripts,
	}
}

// IndexReport chunks and embeds a report, replacing any previously
// indexed chunks for the same video. Embeddings are computed in full
// before the index is touched, so a provider failure leaves the
// existing entries intact.
func (s *RetrievalService) IndexReport(ctx context.Context, report domain.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	chunks := s.splitter.Chunks(report.VideoID, report.VideoTitle, domain.SourceReport, report.IndexText())
	return s.replaceSource(ctx, domain.CollectionReports, report.VideoID, chunks)
}

// IndexTranscript chunks and embeds a transcript, replacing any
// previously indexed chunks for the same video.
func (s *RetrievalService) IndexTranscript(ctx context.Context, videoID, videoTitle, text string) error {
	transcript := domain.Transcript{VideoID: videoID, VideoTitle: videoTitle, Text: text}
	if err := transcript.Validate(); err != nil {
		return err
	}

	chunks := s.splitter.Chunks(videoID, videoTitle, domain.SourceTranscript, text)
	return s.replaceSource(ctx, domain.CollectionTranscripts, videoID, chunks)
}

// replaceSource stages embeddings for all chunks, then swaps out the
// video's entries in one remove-then-add pass.
func (s *RetrievalService) replaceSource(
	ctx context.Context, collection domain.Collection, videoID string, chunks []domain.Chunk,
) error {
	if len(chunks) == 0 {
		// Validation guarantees non-empty text, but a splitter
		// misconfiguration could still get here.
		return fmt.Errorf("%w: no chunks produced for %s", domain.ErrInvalidInput, videoID)
	}

	logger.Debug("Indexing %s: %d chunks into %s", videoID, len(chunks), collection)

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %s: %w", videoID, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding %s: got %d vectors for %d chunks", videoID, len(vectors), len(chunks))
	}

	if err := s.index.RemoveBySource(ctx, collection, videoID); err != nil {
		return fmt.Errorf("removing stale chunks for %s: %w", videoID, err)
	}
	for i, chunk := range chunks {
		if err := s.index.Add(ctx, collection, chunk, vectors[i]); err != nil {
			return fmt.Errorf("adding chunk %s: %w", chunk.ID(), err)
		}
	}
	return nil
}

// Retrieve embeds the query and returns the closest chunks across the
// enabled collections, sorted by ascending distance.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievedChunk{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultRetrieveLimit
	}

	// Over-fetch when filtering by video so the filter does not
	// starve the result set.
	fetch := limit
	if len(opts.VideoIDs) > 0 {
		fetch = limit * 3
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var merged []domain.RetrievedChunk
	if opts.IncludeReports {
		results, err := s.index.Query(ctx, domain.CollectionReports, vector, fetch)
		if err != nil {
			return nil, fmt.Errorf("querying reports: %w", err)
		}
		merged = append(merged, results...)
	}
	if opts.IncludeTranscripts {
		results, err := s.index.Query(ctx, domain.CollectionTranscripts, vector, fetch)
		if err != nil {
			return nil, fmt.Errorf("querying transcripts: %w", err)
		}
		merged = append(merged, results...)
	}

	if len(opts.VideoIDs) > 0 {
		wanted := make(map[string]bool, len(opts.VideoIDs))
		for _, id := range opts.VideoIDs {
			wanted[id] = true
		}
		filtered := merged[:0]
		for _, result := range merged {
			if wanted[result.VideoID] {
				filtered = append(filtered, result)
			}
		}
		merged = filtered
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Distance < merged[j].Distance
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	if merged == nil {
		merged = []domain.RetrievedChunk{}
	}

	logger.Debug("Retrieved %d chunks for query %q", len(merged), query)
	return merged, nil
}

// RemoveSource drops every indexed chunk for a video from one
// collection. Unknown videos are a no-op.
func (s *RetrievalService) RemoveSource(ctx context.Context, collection domain.Collection, videoID string) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return s.index.RemoveBySource(ctx, collection, videoID)
}

// ReindexAll rebuilds the vector index from the stored reports and
// transcripts. Both collections are cleared first; items that fail to
// index are skipped and reported in the summary.
func (s *RetrievalService) ReindexAll(ctx context.Context) (driving.ReindexSummary, error) {
	logger.Section("Reindex")

	var summary driving.ReindexSummary

	for _, collection := range domain.Collections() {
		if err := s.index.Clear(ctx, collection); err != nil {
			return summary, fmt.Errorf("clearing %s: %w", collection, err)
		}
	}

	reports, err := s.reports.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing reports: %w", err)
	}
	for _, report := range reports {
		if err := s.IndexReport(ctx, report); err != nil {
			logger.Warn("Skipping report %s: %v", report.VideoID, err)
			summary.Failed = append(summary.Failed, fmt.Sprintf("reports/%s: %v", report.VideoID, err))
			continue
		}
		summary.Reports++
	}

	transcripts, err := s.transcripts.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing transcripts: %w", err)
	}
	for _, transcript := range transcripts {
		title := transcript.VideoTitle
		if title == "" {
			if report, err := s.reports.Get(ctx, transcript.VideoID); err == nil {
				title = report.VideoTitle
			}
		}
		if err := s.IndexTranscript(ctx, transcript.VideoID, title, transcript.Text); err != nil {
			logger.Warn("Skipping transcript %s: %v", transcript.VideoID, err)
			summary.Failed = append(summary.Failed, fmt.Sprintf("transcripts/%s: %v", transcript.VideoID, err))
			continue
		}
		summary.Transcripts++
	}

	logger.Info("Reindexed %d reports, %d transcripts (%d failed)",
		summary.Reports, summary.Transcripts, len(summary.Failed))
	return summary, nil
}

// Stats returns per-collection chunk counts.
func (s *RetrievalService) Stats(ctx context.Context) (domain.IndexStats, error) {
	return s.index.Stats(ctx)
}

// ClearCache empties the embedding cache. Indexed vectors are
// unaffected.
func (s *RetrievalService) ClearCache(_ context.Context) error {
	return s.cache.Clear()
}
