package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates an unusable chunk size / overlap
	// configuration (size <= 0, negative overlap, or overlap >= size).
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrUnknownCollection indicates a vector index operation named a
	// collection that is neither reports nor transcripts.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrProvider indicates an upstream provider call failed after
	// retries (network, auth, rate limit). Retrieval surfaces this to
	// the caller rather than answering from empty context.
	ErrProvider = errors.New("embedding provider failed")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Analysis and question answering are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrNoTranscript indicates the video has no usable transcript track.
	ErrNoTranscript = errors.New("no transcript available")
)
