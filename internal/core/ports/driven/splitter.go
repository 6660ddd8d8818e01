package driven

import "github.com/tubelens/tubelens-cli/internal/core/domain"

// TextSplitter cuts source text into bounded, overlapping segments
// suitable for embedding. Splitting is deterministic: the same input
// always yields the same segments.
type TextSplitter interface {
	// Split returns the segments of text in order. Empty input yields
	// no segments.
	Split(text string) []string

	// Chunks splits text and annotates each segment with its source
	// video and position.
	Chunks(videoID, videoTitle string, sourceType domain.SourceType, text string) []domain.Chunk

	// ChunkSize returns the configured target segment length in bytes.
	ChunkSize() int

	// Overlap returns the configured overlap between consecutive
	// segments in bytes.
	Overlap() int
}
