// Package memory provides in-memory implementations of the storage
// ports. They mirror the persistent adapters' semantics and back the
// service tests; the CLI can also run on them when persistence is
// disabled.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// entry is one indexed chunk with its vector and insertion order.
type entry struct {
	chunk  domain.Chunk
	vector []float32
	seq    int
}

// VectorIndex is an in-memory vector index with per-collection locking
// so reads of one collection never wait on writes to another.
type VectorIndex struct {
	collections map[domain.Collection]*collection
}

type collection struct {
	mu      sync.RWMutex
	entries map[string]*entry // keyed by chunk identity
	nextSeq int
}

// NewVectorIndex creates an empty index with both collections.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		collections: map[domain.Collection]*collection{
			domain.CollectionReports:     {entries: make(map[string]*entry)},
			domain.CollectionTranscripts: {entries: make(map[string]*entry)},
		},
	}
}

func (v *VectorIndex) collection(name domain.Collection) (*collection, error) {
	c, ok := v.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, name)
	}
	return c, nil
}

// Add inserts or replaces the entry for the chunk's identity.
func (v *VectorIndex) Add(_ context.Context, name domain.Collection, chunk domain.Chunk, vector []float32) error {
	c, err := v.collection(name)
	if err != nil {
		return err
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)

	c.mu.Lock()
	defer c.mu.Unlock()

	id := chunk.ID()
	if existing, ok := c.entries[id]; ok {
		// Overwrite keeps the original insertion order.
		existing.chunk = chunk
		existing.vector = vec
		return nil
	}
	c.entries[id] = &entry{chunk: chunk, vector: vec, seq: c.nextSeq}
	c.nextSeq++
	return nil
}

// Query returns the k nearest chunks by cosine distance.
func (v *VectorIndex) Query(_ context.Context, name domain.Collection, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	c, err := v.collection(name)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	c.mu.RLock()
	entries := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	// Insertion order first so the stable distance sort breaks ties by it.
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	hits := make([]domain.RetrievedChunk, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, domain.RetrievedChunk{
			Chunk:    e.chunk,
			Distance: cosineDistance(vector, e.vector),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// RemoveBySource deletes all chunks belonging to the video.
func (v *VectorIndex) RemoveBySource(_ context.Context, name domain.Collection, videoID string) error {
	c, err := v.collection(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		if e.chunk.VideoID == videoID {
			delete(c.entries, id)
		}
	}
	return nil
}

// Clear empties a single collection.
func (v *VectorIndex) Clear(_ context.Context, name domain.Collection) error {
	c, err := v.collection(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.nextSeq = 0
	return nil
}

// Stats returns chunk counts per collection.
func (v *VectorIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats

	for name, c := range v.collections {
		c.mu.RLock()
		n := len(c.entries)
		c.mu.RUnlock()

		switch name {
		case domain.CollectionReports:
			stats.Reports = n
		case domain.CollectionTranscripts:
			stats.Transcripts = n
		}
	}
	return stats, nil
}

// Close is a no-op for the in-memory index.
func (v *VectorIndex) Close() error {
	return nil
}

// cosineDistance returns 1 minus the cosine similarity of a and b.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
