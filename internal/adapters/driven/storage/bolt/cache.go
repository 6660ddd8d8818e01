// Package bolt provides the persistent embedding cache backed by bbolt.
//
// The cache maps content hashes to embedding vectors so identical text
// is embedded at most once across process restarts. Vectors are stored
// as little-endian float32 bytes; an entry whose length is not a
// multiple of four is corrupt and reported as a miss.
package bolt

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

var bucketEmbeddings = []byte("embeddings")

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache is a bbolt-backed embedding cache.
type Cache struct {
	db   *bbolt.DB
	path string
}

// NewCache opens (or creates) the cache database in cacheDir.
// If cacheDir is empty, defaults to ~/.tubelens/cache.
func NewCache(cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".tubelens", "cache")
	}

	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	path := filepath.Join(cacheDir, "embeddings.db")
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating embeddings bucket: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Path returns the cache database file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached vector for the key, or ok=false on a miss.
// Corrupt entries are misses, never errors.
func (c *Cache) Get(key string) ([]float32, bool) {
	var vector []float32

	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEmbeddings).Get([]byte(key))
		if data == nil || len(data)%4 != 0 || len(data) == 0 {
			return nil
		}
		// Copy out: bbolt buffers are only valid inside the transaction.
		vector = bytesToFloat32Slice(data)
		return nil
	})
	if err != nil || vector == nil {
		return nil, false
	}
	return vector, true
}

// Put stores a vector under the key, replacing any previous value.
func (c *Cache) Put(key string, vector []float32) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put([]byte(key), float32SliceToBytes(vector))
	})
	if err != nil {
		return fmt.Errorf("caching embedding %s: %w", key, err)
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEmbeddings); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketEmbeddings)
		return err
	})
	if err != nil {
		return fmt.Errorf("clearing embedding cache: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEmbeddings).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
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
