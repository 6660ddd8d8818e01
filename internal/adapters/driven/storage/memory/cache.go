package memory

import (
	"sync"

	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache is an in-memory embedding cache.
type Cache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{vectors: make(map[string][]float32)}
}

// Get returns the cached vector for the key, or ok=false on a miss.
func (c *Cache) Get(key string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vec, ok := c.vectors[key]
	if !ok {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// Put stores a vector under the key, replacing any previous value.
func (c *Cache) Put(key string, vector []float32) error {
	vec := make([]float32, len(vector))
	copy(vec, vector)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[key] = vec
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors = make(map[string][]float32)
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors), nil
}

// Close is a no-op for the in-memory cache.
func (c *Cache) Close() error {
	return nil
}
