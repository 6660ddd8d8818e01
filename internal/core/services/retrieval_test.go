package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubelens/tubelens-cli/internal/adapters/driven/embedding/cached"
	"github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/memory"
	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/postprocessors/chunker"
)

// retrievalFixture bundles a retrieval service with its backing
// fakes.
type retrievalFixture struct {
	service     *RetrievalService
	embedder    *mockEmbedder
	index       *memory.VectorIndex
	cache       *memory.Cache
	reports     *mockReportStore
	transcripts *mockTranscriptStore
}

func newRetrievalFixture(t *testing.T, opts ...chunker.Option) *retrievalFixture {
	t.Helper()

	splitter, err := chunker.New(opts...)
	require.NoError(t, err)

	f := &retrievalFixture{
		embedder:    newMockEmbedder(),
		index:       memory.NewVectorIndex(),
		cache:       memory.NewCache(),
		reports:     newMockReportStore(),
		transcripts: newMockTranscriptStore(),
	}
	f.service = NewRetrievalService(splitter, f.embedder, f.index, f.cache, f.reports, f.transcripts)
	return f
}

func retrievalReport(videoID string) domain.Report {
	return domain.Report{
		VideoID:    videoID,
		VideoTitle: "Understanding Goroutines",
		Analysis: domain.Analysis{
			OverallSummary: "An introduction to goroutines and the scheduler.",
		},
	}
}

func TestIndexReport_MakesChunksRetrievable(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexReport(ctx, retrievalReport("v1")))

	f.embedder.assign("goroutines", []float32{1, 0, 0})

	results, err := f.service.Retrieve(ctx, "goroutines", domain.DefaultRetrieveOptions(5))
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "v1", results[0].VideoID)
	assert.Equal(t, domain.SourceReport, results[0].SourceType)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
}

func TestIndexReport_RejectsInvalid(t *testing.T) {
	f := newRetrievalFixture(t)

	err := f.service.IndexReport(context.Background(), domain.Report{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.embedder.batchCalls)
}

func TestIndexReport_ReplacesPreviousChunks(t *testing.T) {
	// A small chunk size so the longer first version produces more
	// chunks than the shorter second one.
	f := newRetrievalFixture(t, chunker.WithChunkSize(20), chunker.WithOverlap(0))
	ctx := context.Background()

	long := retrievalReport("v1")
	long.Analysis.OverallSummary = "This first revision of the report is deliberately long enough to span several chunks."
	require.NoError(t, f.service.IndexReport(ctx, long))

	statsBefore, err := f.service.Stats(ctx)
	require.NoError(t, err)

	short := retrievalReport("v1")
	short.Analysis.OverallSummary = "Short."
	require.NoError(t, f.service.IndexReport(ctx, short))

	statsAfter, err := f.service.Stats(ctx)
	require.NoError(t, err)
	assert.Less(t, statsAfter.Reports, statsBefore.Reports)
}

func TestIndexReport_ProviderFailureLeavesIndexIntact(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexReport(ctx, retrievalReport("v1")))
	statsBefore, err := f.service.Stats(ctx)
	require.NoError(t, err)
	require.Positive(t, statsBefore.Reports)

	f.embedder.embedErr = errors.New("embedding service down")

	updated := retrievalReport("v1")
	updated.Analysis.OverallSummary = "A different summary."
	err = f.service.IndexReport(ctx, updated)
	require.Error(t, err)

	// The old chunks survive the failed re-index.
	statsAfter, err := f.service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)
}

func TestIndexTranscript_MakesChunksRetrievable(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	f.embedder.assign("the scheduler moves goroutines between threads", []float32{0, 1, 0})
	f.embedder.assign("scheduler", []float32{0, 1, 0})

	err := f.service.IndexTranscript(ctx, "v2", "Scheduler Deep Dive",
		"the scheduler moves goroutines between threads")
	require.NoError(t, err)

	results, err := f.service.Retrieve(ctx, "scheduler", domain.DefaultRetrieveOptions(5))
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "v2", results[0].VideoID)
	assert.Equal(t, "Scheduler Deep Dive", results[0].VideoTitle)
	assert.Equal(t, domain.SourceTranscript, results[0].SourceType)
}

func TestIndexTranscript_RejectsEmptyText(t *testing.T) {
	f := newRetrievalFixture(t)

	err := f.service.IndexTranscript(context.Background(), "v2", "Title", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrieve_MergesCollectionsByDistance(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	// Transcript is a closer match than the report.
	f.embedder.assign("query", []float32{0, 1, 0})
	f.embedder.assign("report text about testing", []float32{1, 0, 0})
	f.embedder.assign("transcript text about queries", []float32{0, 1, 0})

	require.NoError(t, f.service.IndexTranscript(ctx, "v2", "T", "transcript text about queries"))

	report := retrievalReport("v1")
	f.embedder.assign(report.IndexText(), []float32{1, 0, 0})
	require.NoError(t, f.service.IndexReport(ctx, report))

	results, err := f.service.Retrieve(ctx, "query", domain.DefaultRetrieveOptions(5))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "v2", results[0].VideoID)
	assert.Equal(t, domain.SourceTranscript, results[0].SourceType)
	assert.Equal(t, "v1", results[1].VideoID)
	assert.True(t, results[0].Distance <= results[1].Distance)
}

func TestRetrieve_CollectionToggles(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexReport(ctx, retrievalReport("v1")))
	require.NoError(t, f.service.IndexTranscript(ctx, "v2", "T", "some transcript text"))

	onlyTranscripts := domain.RetrieveOptions{Limit: 5, IncludeTranscripts: true}
	results, err := f.service.Retrieve(ctx, "anything", onlyTranscripts)
	require.NoError(t, err)
	for _, result := range results {
		assert.Equal(t, domain.SourceTranscript, result.SourceType)
	}

	onlyReports := domain.RetrieveOptions{Limit: 5, IncludeReports: true}
	results, err = f.service.Retrieve(ctx, "anything", onlyReports)
	require.NoError(t, err)
	for _, result := range results {
		assert.Equal(t, domain.SourceReport, result.SourceType)
	}
}

func TestRetrieve_FiltersByVideoID(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("v%d", i)
		require.NoError(t, f.service.IndexTranscript(ctx, id, "T", fmt.Sprintf("transcript %d", i)))
	}

	opts := domain.DefaultRetrieveOptions(2)
	opts.VideoIDs = []string{"v2"}

	results, err := f.service.Retrieve(ctx, "anything", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v2", results[0].VideoID)
}

func TestRetrieve_EmptyQueryReturnsNothing(t *testing.T) {
	f := newRetrievalFixture(t)

	results, err := f.service.Retrieve(context.Background(), "   ", domain.DefaultRetrieveOptions(5))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 0, f.embedder.batchCalls)
}

func TestRetrieve_EmptyIndexIsNotAnError(t *testing.T) {
	f := newRetrievalFixture(t)

	results, err := f.service.Retrieve(context.Background(), "anything", domain.DefaultRetrieveOptions(5))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRetrieve_ProviderErrorPropagates(t *testing.T) {
	f := newRetrievalFixture(t)
	f.embedder.embedErr = errors.New("embedding service down")

	_, err := f.service.Retrieve(context.Background(), "anything", domain.DefaultRetrieveOptions(5))
	assert.ErrorIs(t, err, f.embedder.embedErr)
}

func TestRetrieve_LimitTruncates(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("v%d", i)
		require.NoError(t, f.service.IndexTranscript(ctx, id, "T", fmt.Sprintf("transcript %d", i)))
	}

	results, err := f.service.Retrieve(ctx, "anything", domain.DefaultRetrieveOptions(3))
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRemoveSource(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.IndexTranscript(ctx, "v1", "T", "some transcript text"))

	require.NoError(t, f.service.RemoveSource(ctx, domain.CollectionTranscripts, "v1"))

	stats, err := f.service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Transcripts)

	// Unknown videos are a no-op.
	assert.NoError(t, f.service.RemoveSource(ctx, domain.CollectionTranscripts, "ghost"))
}

func TestRemoveSource_UnknownCollection(t *testing.T) {
	f := newRetrievalFixture(t)

	err := f.service.RemoveSource(context.Background(), "summaries", "v1")
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)
}

func TestReindexAll_RebuildsFromStores(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	// A stale entry that only the clear step can remove.
	require.NoError(t, f.service.IndexTranscript(ctx, "removed-video", "Old", "stale transcript"))

	require.NoError(t, f.reports.Save(ctx, retrievalReport("v1")))
	require.NoError(t, f.reports.Save(ctx, retrievalReport("v2")))
	require.NoError(t, f.transcripts.Save(ctx, domain.Transcript{VideoID: "v1", Text: "transcript one"}))
	require.NoError(t, f.transcripts.Save(ctx, domain.Transcript{VideoID: "v2", Text: "transcript two"}))

	summary, err := f.service.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Reports)
	assert.Equal(t, 2, summary.Transcripts)
	assert.Empty(t, summary.Failed)

	// The stale video is gone.
	opts := domain.DefaultRetrieveOptions(10)
	opts.VideoIDs = []string{"removed-video"}
	results, err := f.service.Retrieve(ctx, "stale", opts)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReindexAll_SkipsFailedItems(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.reports.Save(ctx, retrievalReport("good")))
	require.NoError(t, f.transcripts.Save(ctx, domain.Transcript{VideoID: "empty", Text: "   "}))
	require.NoError(t, f.transcripts.Save(ctx, domain.Transcript{VideoID: "good", Text: "usable transcript"}))

	summary, err := f.service.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Reports)
	assert.Equal(t, 1, summary.Transcripts)
	require.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed[0], "transcripts/empty")
}

func TestReindexAll_IsIdempotent(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.reports.Save(ctx, retrievalReport("v1")))
	require.NoError(t, f.transcripts.Save(ctx, domain.Transcript{VideoID: "v1", Text: "transcript"}))

	_, err := f.service.ReindexAll(ctx)
	require.NoError(t, err)
	statsFirst, err := f.service.Stats(ctx)
	require.NoError(t, err)

	_, err = f.service.ReindexAll(ctx)
	require.NoError(t, err)
	statsSecond, err := f.service.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, statsFirst, statsSecond)
}

func TestReindexAll_UsesCachedEmbeddings(t *testing.T) {
	// Wire the real caching decorator between the service and the
	// provider: the second reindex must not call the provider again.
	splitter, err := chunker.New()
	require.NoError(t, err)

	provider := newMockEmbedder()
	cache := memory.NewCache()
	var embedder driven.EmbeddingService = cached.New(provider, cache)

	reports := newMockReportStore()
	transcripts := newMockTranscriptStore()
	service := NewRetrievalService(splitter, embedder, memory.NewVectorIndex(), cache, reports, transcripts)

	ctx := context.Background()
	require.NoError(t, reports.Save(ctx, retrievalReport("v1")))
	require.NoError(t, transcripts.Save(ctx, domain.Transcript{VideoID: "v1", Text: "a transcript"}))

	_, err = service.ReindexAll(ctx)
	require.NoError(t, err)
	callsAfterFirst := provider.batchCalls
	require.Positive(t, callsAfterFirst)

	_, err = service.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, provider.batchCalls)
}

func TestClearCache(t *testing.T) {
	f := newRetrievalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Put("key", []float32{1, 2, 3}))

	require.NoError(t, f.service.ClearCache(ctx))

	n, err := f.cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
