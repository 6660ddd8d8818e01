// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"fmt"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Processor splits source text into fixed-size chunks with overlap.
// It implements the TextSplitter port.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// A chunk size <= 0, a negative overlap, or an overlap >= chunk size
// is a configuration error.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", domain.ErrInvalidChunking, p.chunkSize)
	}
	if p.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d", domain.ErrInvalidChunking, p.overlap)
	}
	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d >= chunk size %d",
			domain.ErrInvalidChunking, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap in characters.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split cuts text into segments of at most chunkSize characters where
// consecutive segments share the configured overlap. Splitting the
// same text twice yields identical segments; concatenating segments
// with the overlap removed reconstructs the input exactly.
func (p *Processor) Split(text string) []string {
	if text == "" {
		return nil
	}

	contentLen := len(text)
	step := p.chunkSize - p.overlap

	// Estimate number of chunks
	segments := make([]string, 0, contentLen/step+1)

	for start := 0; start < contentLen; start += step {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}
		segments = append(segments, text[start:end])
		if end == contentLen {
			break
		}
	}

	return segments
}

// Chunks splits text and wraps each segment in a domain.Chunk tagged
// with its source video and position.
func (p *Processor) Chunks(videoID, videoTitle string, sourceType domain.SourceType, text string) []domain.Chunk {
	segments := p.Split(text)
	chunks := make([]domain.Chunk, 0, len(segments))

	for i, segment := range segments {
		chunks = append(chunks, domain.Chunk{
			VideoID:    videoID,
			VideoTitle: videoTitle,
			SourceType: sourceType,
			Index:      i,
			Text:       segment,
		})
	}

	return chunks
}
