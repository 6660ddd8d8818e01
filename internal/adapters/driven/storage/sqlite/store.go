package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed vector index storage.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified index directory.
// If indexDir is empty, defaults to ~/.tubelens/index/vectors.db.
func NewStore(indexDir string) (*Store, error) {
	if indexDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		indexDir = filepath.Join(home, ".tubelens", "index")
	}

	// Ensure directory exists
	if err := os.MkdirAll(indexDir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, "vectors.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VectorIndex returns a VectorIndex interface backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Vector Index ====================

// vectorIndex implements driven.VectorIndex.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Add inserts or replaces the entry for the chunk's identity.
func (v *vectorIndex) Add(ctx context.Context, collection domain.Collection, chunk domain.Chunk, vector []float32) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}

	embeddingBlob := float32SliceToBytes(vector)

	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO chunks (collection, video_id, chunk_index, video_title, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, video_id, chunk_index) DO UPDATE SET
			video_title = excluded.video_title,
			content = excluded.content,
			embedding = excluded.embedding
	`, string(collection), chunk.VideoID, chunk.Index, chunk.VideoTitle, chunk.Text, embeddingBlob)

	if err != nil {
		return fmt.Errorf("adding chunk %s to %s: %w", chunk.ID(), collection, err)
	}
	return nil
}

// Query returns the k nearest chunks by cosine distance.
func (v *vectorIndex) Query(ctx context.Context, collection domain.Collection, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT video_id, chunk_index, video_title, content, embedding
		FROM chunks WHERE collection = ?
		ORDER BY rowid
	`, string(collection))
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", collection, err)
	}
	defer rows.Close()

	sourceType := domain.SourceReport
	if collection == domain.CollectionTranscripts {
		sourceType = domain.SourceTranscript
	}

	var hits []domain.RetrievedChunk
	for rows.Next() {
		var (
			chunk         domain.Chunk
			embeddingBlob []byte
		)
		if err := rows.Scan(&chunk.VideoID, &chunk.Index, &chunk.VideoTitle, &chunk.Text, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.SourceType = sourceType

		embedding := bytesToFloat32Slice(embeddingBlob)
		hits = append(hits, domain.RetrievedChunk{
			Chunk:    chunk,
			Distance: CosineDistance(vector, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Rows arrive in insertion order; a stable sort keeps that order
	// for equal distances.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	if hits == nil {
		hits = []domain.RetrievedChunk{}
	}
	return hits, nil
}

// RemoveBySource deletes all chunks belonging to the video.
func (v *vectorIndex) RemoveBySource(ctx context.Context, collection domain.Collection, videoID string) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}

	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ? AND video_id = ?",
		string(collection), videoID)
	if err != nil {
		return fmt.Errorf("removing chunks for %s from %s: %w", videoID, collection, err)
	}
	return nil
}

// Clear empties a single collection.
func (v *vectorIndex) Clear(ctx context.Context, collection domain.Collection) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}

	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ?", string(collection))
	if err != nil {
		return fmt.Errorf("clearing collection %s: %w", collection, err)
	}
	return nil
}

// Stats returns chunk counts per collection.
func (v *vectorIndex) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats

	rows, err := v.store.db.QueryContext(ctx,
		"SELECT collection, COUNT(*) FROM chunks GROUP BY collection")
	if err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			collection string
			count      int
		)
		if err := rows.Scan(&collection, &count); err != nil {
			return stats, fmt.Errorf("scanning counts: %w", err)
		}
		switch domain.Collection(collection) {
		case domain.CollectionReports:
			stats.Reports = count
		case domain.CollectionTranscripts:
			stats.Transcripts = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterating counts: %w", err)
	}
	return stats, nil
}

// Close closes the underlying store.
func (v *vectorIndex) Close() error {
	return v.store.Close()
}

// CosineDistance returns 1 minus the cosine similarity of a and b.
// A zero-norm vector has no direction; its distance to anything is 1.
func CosineDistance(a, b []float32) float64 {
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

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
