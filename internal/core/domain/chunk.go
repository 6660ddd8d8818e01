package domain

import "fmt"

// Collection is a named, independent partition of the vector index.
type Collection string

const (
	// CollectionReports holds chunks produced from video analysis reports.
	CollectionReports Collection = "reports"

	// CollectionTranscripts holds chunks produced from raw transcripts.
	CollectionTranscripts Collection = "transcripts"
)

// Collections lists every known collection in a stable order.
func Collections() []Collection {
	return []Collection{CollectionReports, CollectionTranscripts}
}

// Valid reports whether the collection is one of the known partitions.
func (c Collection) Valid() bool {
	return c == CollectionReports || c == CollectionTranscripts
}

// SourceType identifies which kind of text a chunk was cut from.
type SourceType string

const (
	// SourceReport marks chunks cut from a report.
	SourceReport SourceType = "report"

	// SourceTranscript marks chunks cut from a transcript.
	SourceTranscript SourceType = "transcript"
)

// Chunk is a bounded substring of a report or transcript, tagged with
// its source video and position. Chunks are immutable once created.
type Chunk struct {
	// VideoID is the YouTube video the chunk belongs to.
	VideoID string

	// VideoTitle is carried along for result presentation.
	VideoTitle string

	// SourceType records whether the chunk came from a report or a transcript.
	SourceType SourceType

	// Index is the ordinal position of the chunk within its source text.
	Index int

	// Text is the chunk content.
	Text string
}

// ID returns the chunk's identity within a collection. Re-indexing the
// same (video, position) replaces the previous entry rather than
// duplicating it.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s:%d", c.VideoID, c.Index)
}

// RetrievedChunk is a chunk returned from a similarity query together
// with its cosine distance from the query vector. Smaller distance
// means more similar.
type RetrievedChunk struct {
	Chunk

	// Distance is 1 minus the cosine similarity to the query vector.
	Distance float64
}

// IndexStats reports item counts per collection.
type IndexStats struct {
	// Reports is the number of chunks in the reports collection.
	Reports int

	// Transcripts is the number of chunks in the transcripts collection.
	Transcripts int
}

// Total returns the combined chunk count across collections.
func (s IndexStats) Total() int {
	return s.Reports + s.Transcripts
}

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// Limit is the maximum number of chunks to return.
	Limit int

	// IncludeReports selects the reports collection.
	IncludeReports bool

	// IncludeTranscripts selects the transcripts collection.
	IncludeTranscripts bool

	// VideoIDs, when non-empty, restricts results to these videos.
	VideoIDs []string
}

// DefaultRetrieveLimit is the number of chunks returned when the
// caller does not specify a limit.
const DefaultRetrieveLimit = 5

// DefaultRetrieveOptions queries both collections with the given limit.
func DefaultRetrieveOptions(limit int) RetrieveOptions {
	return RetrieveOptions{
		Limit:              limit,
		IncludeReports:     true,
		IncludeTranscripts: true,
	}
}
