// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// The embedding function is treated as an external oracle: the core
// never inspects vector contents beyond their length.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - OpenAI-compatible inference servers
//   - A caching decorator wrapping any of the above
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result is positionally aligned with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingCache persists content-hash → vector mappings so repeated
// indexing of identical text never recomputes an embedding. The key is
// a deterministic function of the text content only, so identical text
// across videos shares one entry.
type EmbeddingCache interface {
	// Get returns the cached vector for the key, or ok=false on a miss.
	// An unreadable entry is reported as a miss, never as an error.
	Get(key string) (vector []float32, ok bool)

	// Put stores a vector under the key, replacing any previous value.
	Put(key string, vector []float32) error

	// Clear removes all entries and frees associated storage.
	Clear() error

	// Len returns the number of cached entries.
	Len() (int, error)

	// Close flushes and closes the underlying storage.
	Close() error
}
