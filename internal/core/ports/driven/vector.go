package driven

import (
	"context"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// VectorIndex stores (vector, chunk) tuples in independent named
// collections and supports cosine-distance nearest-neighbour search.
// Mutations are safe under concurrent writers; reads of one collection
// never wait on writes to another.
type VectorIndex interface {
	// Add inserts or replaces the entry for the chunk's identity
	// (video id + chunk index) within the collection. Re-adding the
	// same identity overwrites rather than duplicates.
	Add(ctx context.Context, collection domain.Collection, chunk domain.Chunk, vector []float32) error

	// Query returns the k entries nearest to the query vector, ordered
	// ascending by cosine distance, ties broken by insertion order.
	// An empty collection yields an empty result, not an error.
	Query(ctx context.Context, collection domain.Collection, vector []float32, k int) ([]domain.RetrievedChunk, error)

	// RemoveBySource deletes all chunks belonging to the video.
	// Removing an unknown video id is a no-op.
	RemoveBySource(ctx context.Context, collection domain.Collection, videoID string) error

	// Clear empties a single collection without touching the other.
	Clear(ctx context.Context, collection domain.Collection) error

	// Stats returns item counts per collection.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
